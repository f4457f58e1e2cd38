package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"printpost-backend/internal/domain"
	"printpost-backend/internal/infrastructure/sendgrid"
)

type MailSender interface {
	Send(ctx context.Context, m sendgrid.Message) error
}

// Dispatcher delivers fulfillment emails from a background worker so the
// webhook response never waits on the mail service. Failures reach OnFailure
// (default: log) and nothing else; delivery is best effort.
type Dispatcher struct {
	Sender MailSender
	From   string
	To     string

	// OnFailure is the supervised failure channel for the detached send.
	OnFailure func(sessionID string, err error)

	jobs chan *domain.OrderRecord
}

func NewDispatcher(sender MailSender, from, to string, queueSize int) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		Sender: sender,
		From:   from,
		To:     to,
		jobs:   make(chan *domain.OrderRecord, queueSize),
	}
}

// Enqueue hands a record to the worker without blocking. It reports false
// when the queue is full; the caller only logs, since the ack to the payment
// service must not depend on notification.
func (d *Dispatcher) Enqueue(rec *domain.OrderRecord) bool {
	select {
	case d.jobs <- rec:
		return true
	default:
		return false
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	log.Printf("notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-d.jobs:
			d.send(ctx, rec)
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, rec *domain.OrderRecord) {
	msg := sendgrid.Message{
		From:    d.From,
		To:      d.To,
		Subject: fmt.Sprintf("New Print Order #%s - %s", shortSessionID(rec.SessionID), rec.SenderName),
		HTML:    renderOrderHTML(rec),
		Text:    renderOrderText(rec),
	}
	if err := d.Sender.Send(ctx, msg); err != nil {
		if d.OnFailure != nil {
			d.OnFailure(rec.SessionID, err)
			return
		}
		log.Printf("dispatch: email for session %s failed: %v", rec.SessionID, err)
		return
	}
	log.Printf("dispatch: email for session %s sent", rec.SessionID)
}

func shortSessionID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

func renderOrderHTML(rec *domain.OrderRecord) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;color:#333">`)
	fmt.Fprintf(&b, `<h1>New Order: %s</h1>`, rec.SenderName)
	b.WriteString(`<h3>Job Details</h3>`)
	fmt.Fprintf(&b, `<div><b>PDF File:</b> <a href="%s">Download PDF</a></div>`, rec.FileURL)
	fmt.Fprintf(&b, `<div><b>Config:</b> %s | %s | %d pages</div>`, rec.PrintType, rec.PaperSize, rec.PageCount)
	fmt.Fprintf(&b, `<div><b>Mail Type:</b> %s</div>`, rec.MailType)
	fmt.Fprintf(&b, `<div><b>Amount:</b> $%.2f</div>`, float64(rec.AmountTotalCents)/100)
	b.WriteString(`<h3>From (Sender)</h3>`)
	fmt.Fprintf(&b, `<div>%s</div><div>%s</div><div>%s</div>`, rec.SenderName, rec.SenderAddress, rec.SenderEmail)
	b.WriteString(`<h3>To (Recipient)</h3>`)
	fmt.Fprintf(&b, `<div>%s</div><div>%s</div>`, rec.RecipientName, rec.RecipientAddress)
	fmt.Fprintf(&b, `<p><small>Session %s | Paid %s | Ordered %s</small></p>`,
		rec.SessionID, rec.PaymentStatus, rec.OrderDate.Format("2006-01-02 15:04 MST"))
	b.WriteString(`</body></html>`)
	return b.String()
}

func renderOrderText(rec *domain.OrderRecord) string {
	var b strings.Builder
	b.WriteString("New Print Order\n\n")
	fmt.Fprintf(&b, "File: %s\n", rec.FileURL)
	fmt.Fprintf(&b, "Config: %s | %s | %d pages | %s mail\n", rec.PrintType, rec.PaperSize, rec.PageCount, rec.MailType)
	fmt.Fprintf(&b, "Amount: $%.2f (%s)\n\n", float64(rec.AmountTotalCents)/100, rec.PaymentStatus)
	fmt.Fprintf(&b, "Sender: %s, %s, %s\n", rec.SenderName, rec.SenderAddress, rec.SenderEmail)
	fmt.Fprintf(&b, "Recipient: %s, %s\n\n", rec.RecipientName, rec.RecipientAddress)
	fmt.Fprintf(&b, "Session: %s\nOrdered: %s\n", rec.SessionID, rec.OrderDate.Format("2006-01-02 15:04 MST"))
	return b.String()
}
