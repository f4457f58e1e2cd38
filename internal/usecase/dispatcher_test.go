package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"printpost-backend/internal/domain"
	"printpost-backend/internal/infrastructure/sendgrid"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []sendgrid.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, m sendgrid.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeSender) messages() []sendgrid.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sendgrid.Message(nil), f.sent...)
}

func sampleRecord() *domain.OrderRecord {
	return &domain.OrderRecord{
		SessionID:        "cs_test_a1b2c3d4",
		PaymentStatus:    "paid",
		AmountTotalCents: 2140,
		FileURL:          "https://files.example.com/letter.pdf",
		PrintType:        domain.PrintColor,
		MailType:         domain.MailEconomy,
		PaperSize:        domain.PaperLegal,
		PageCount:        12,
		SenderName:       "Ann Author",
		SenderAddress:    "1 First St",
		SenderEmail:      "payer@example.com",
		RecipientName:    "Bob Reader",
		RecipientAddress: "2 Second Ave",
		OrderDate:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestDispatcherSendsRenderedSummary(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, "orders@example.com", "support@example.com", 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	if !d.Enqueue(sampleRecord()) {
		t.Fatalf("Enqueue returned false")
	}

	deadline := time.After(2 * time.Second)
	for len(sender.messages()) == 0 {
		select {
		case <-deadline:
			t.Fatalf("email never sent")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done

	msg := sender.messages()[0]
	if msg.From != "orders@example.com" || msg.To != "support@example.com" {
		t.Fatalf("addressing = %q -> %q", msg.From, msg.To)
	}
	if !strings.Contains(msg.Subject, "a1b2c3d4") || !strings.Contains(msg.Subject, "Ann Author") {
		t.Fatalf("subject = %q", msg.Subject)
	}
	for _, needle := range []string{"https://files.example.com/letter.pdf", "Bob Reader", "12 pages", "$21.40"} {
		if !strings.Contains(msg.HTML, needle) {
			t.Fatalf("html missing %q", needle)
		}
	}
	if !strings.Contains(msg.Text, "cs_test_a1b2c3d4") {
		t.Fatalf("text missing session id")
	}
}

func TestDispatcherFailureIsSupervisedNotPropagated(t *testing.T) {
	sender := &fakeSender{err: errors.New("mail service down")}
	d := NewDispatcher(sender, "orders@example.com", "support@example.com", 4)

	failures := make(chan string, 1)
	d.OnFailure = func(sessionID string, err error) {
		failures <- sessionID
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	if !d.Enqueue(sampleRecord()) {
		t.Fatalf("Enqueue returned false")
	}
	select {
	case id := <-failures:
		if id != "cs_test_a1b2c3d4" {
			t.Fatalf("failure for session %q", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("failure hook never called")
	}
}

func TestDispatcherEnqueueNeverBlocks(t *testing.T) {
	// No worker running; the queue fills and further enqueues report false
	// instead of blocking the webhook response path.
	d := NewDispatcher(&fakeSender{}, "a@b", "c@d", 2)
	if !d.Enqueue(sampleRecord()) || !d.Enqueue(sampleRecord()) {
		t.Fatalf("queue rejected before capacity")
	}
	if d.Enqueue(sampleRecord()) {
		t.Fatalf("full queue accepted a record")
	}
}
