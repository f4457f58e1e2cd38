package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"printpost-backend/internal/domain"
	"printpost-backend/internal/infrastructure/stripe"
	"printpost-backend/internal/pricing"
)

type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, p stripe.SessionParams) (stripe.Session, error)
}

// CheckoutService rates an order and opens a payment session for it. It
// never consumes client-supplied prices; the engine's output is the only
// source of amounts.
type CheckoutService struct {
	Engine     *pricing.Engine
	Payments   PaymentClient
	AppBaseURL string
	Now        func() time.Time
}

type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

func (s *CheckoutService) Create(ctx context.Context, req domain.OrderRequest) (*CheckoutResult, error) {
	priced, err := s.Engine.Rate(req)
	if err != nil {
		return nil, err
	}
	// Rate already rejects an empty file URL; this guards against callers
	// constructing a PricedOrder elsewhere.
	if strings.TrimSpace(req.FileURL) == "" {
		return nil, domain.ValidationError("missing file URL")
	}

	priced.Metadata = s.buildMetadata(req, priced)

	base := strings.TrimRight(s.AppBaseURL, "/")
	params := stripe.SessionParams{
		Metadata:      priced.Metadata,
		SuccessURL:    base + "/success.html?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     base + "/cancel.html",
		CustomerEmail: req.CustomerEmail,
	}
	for _, it := range priced.Items {
		params.LineItems = append(params.LineItems, stripe.LineItemParams{
			Name:            it.Name,
			Description:     it.Description,
			UnitAmountCents: it.UnitAmountCents,
			Quantity:        it.Quantity,
		})
	}

	sess, err := s.Payments.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "create checkout session", Err: err}
	}
	return &CheckoutResult{URL: sess.URL, SessionID: sess.ID}, nil
}

// buildMetadata packs the full order onto the session. Everything needed to
// materialize the order later must be here; nothing else survives the trip
// through the payment service.
func (s *CheckoutService) buildMetadata(req domain.OrderRequest, priced domain.PricedOrder) map[string]string {
	pages := pricing.CanonicalPages(req.PageCount)
	return map[string]string{
		domain.MetaFileURL:          req.FileURL,
		domain.MetaPageCount:        strconv.Itoa(pages),
		domain.MetaPrintType:        string(domain.ParsePrintType(string(req.PrintType))),
		domain.MetaMailType:         string(domain.ParseMailType(string(req.MailType))),
		domain.MetaPaperSize:        string(domain.ParsePaperSize(string(req.PaperSize))),
		domain.MetaTotalCents:       strconv.FormatInt(priced.TotalCents, 10),
		domain.MetaOrderDate:        s.clock().UTC().Format(time.RFC3339),
		domain.MetaSenderName:       req.Sender.Name,
		domain.MetaSenderAddress:    req.Sender.Address,
		domain.MetaRecipientName:    req.Recipient.Name,
		domain.MetaRecipientAddress: req.Recipient.Address,
		domain.MetaCustomerEmail:    req.CustomerEmail,
	}
}

func (s *CheckoutService) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
