package usecase

import (
	"log"
	"strings"
	"time"

	"printpost-backend/internal/domain"
	"printpost-backend/internal/infrastructure/stripe"
	"printpost-backend/internal/pricing"
)

type EventVerifier interface {
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type OrderStore interface {
	MarkProcessed(rec *domain.OrderRecord) (bool, error)
	Get(sessionID string) (*domain.OrderRecord, bool)
	List(page, pageSize int) ([]domain.OrderRecord, int)
}

type Notifier interface {
	Enqueue(rec *domain.OrderRecord) bool
}

// WebhookService processes one inbound delivery from the payment service:
// authenticate the raw body, parse, route by event type, materialize the
// order, and hand it to the notifier. Anything slow happens off the response
// path; the caller must be answered quickly or the event is redelivered.
type WebhookService struct {
	Verifier EventVerifier
	Store    OrderStore
	Notify   Notifier
	Now      func() time.Time
}

// HandleDelivery returns AuthenticityError for a signature mismatch and
// CorruptEventError for an authenticated event whose metadata cannot be
// materialized. Any other delivery, including irrelevant event types and
// redeliveries, is a successful no-op.
func (s *WebhookService) HandleDelivery(payload []byte, sigHeader string) error {
	event, err := s.Verifier.ConstructEvent(payload, sigHeader)
	if err != nil {
		return domain.AuthenticityError("webhook rejected: " + err.Error())
	}

	if event.Type != stripe.EventCheckoutSessionCompleted {
		log.Printf("webhook: event %s type %s ignored", event.ID, event.Type)
		return nil
	}

	rec, err := s.materialize(event)
	if err != nil {
		return err
	}

	first, err := s.Store.MarkProcessed(rec)
	if err != nil {
		// Dedup store down: still notify. A duplicate email beats a lost
		// order, and the payment has already succeeded.
		log.Printf("webhook: dedup store error for session %s: %v", rec.SessionID, err)
		first = true
	}
	if !first {
		log.Printf("webhook: session %s already processed, skipping dispatch", rec.SessionID)
		return nil
	}

	if !s.Notify.Enqueue(rec) {
		log.Printf("webhook: notification queue full, dropped session %s", rec.SessionID)
	}
	return nil
}

// materialize rebuilds the order from session metadata alone. Processor-side
// shipping details are inconsistently populated depending on checkout
// configuration and are never read. Absent optional keys signal an older
// metadata schema, not corruption, and get documented defaults.
func (s *WebhookService) materialize(event stripe.Event) (*domain.OrderRecord, error) {
	sess := event.Data.Object
	if strings.TrimSpace(sess.ID) == "" {
		return nil, domain.CorruptEventError("completed event carries no session id")
	}
	if sess.Metadata == nil {
		return nil, domain.CorruptEventError("session " + sess.ID + " carries no metadata")
	}
	meta := sess.Metadata
	now := s.clock().UTC()

	orderDate := now
	if raw := meta[domain.MetaOrderDate]; raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			orderDate = ts
		}
	}

	email := meta[domain.MetaCustomerEmail]
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}

	return &domain.OrderRecord{
		SessionID:        sess.ID,
		PaymentStatus:    sess.PaymentStatus,
		AmountTotalCents: sess.AmountTotal,
		FileURL:          meta[domain.MetaFileURL],
		PrintType:        domain.ParsePrintType(meta[domain.MetaPrintType]),
		MailType:         domain.ParseMailType(meta[domain.MetaMailType]),
		PaperSize:        domain.ParsePaperSize(meta[domain.MetaPaperSize]),
		PageCount:        pricing.CanonicalPages(meta[domain.MetaPageCount]),
		SenderName:       orUnknown(meta[domain.MetaSenderName]),
		SenderAddress:    orUnknown(meta[domain.MetaSenderAddress]),
		SenderEmail:      email,
		RecipientName:    orUnknown(meta[domain.MetaRecipientName]),
		RecipientAddress: orUnknown(meta[domain.MetaRecipientAddress]),
		OrderDate:        orderDate,
		CreatedAt:        now,
	}, nil
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.UnknownParty
	}
	return s
}

func (s *WebhookService) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
