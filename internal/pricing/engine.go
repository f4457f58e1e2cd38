package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"printpost-backend/internal/domain"
)

// Engine turns untrusted order attributes into an auditable receipt:
// one line item per non-zero fee component plus, when needed, a minimum-order
// adjustment. Rate() is deterministic and does no I/O.
type Engine struct {
	rates RateTable
}

func New(rates RateTable) *Engine {
	return &Engine{rates: rates}
}

func (e *Engine) Rates() RateTable { return e.rates }

// CanonicalPages coerces a raw page count to a positive integer. Non-numeric
// and non-positive input becomes 1. This is coercion kept for compatibility
// with deployed callers, not validation.
func CanonicalPages(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (e *Engine) Rate(req domain.OrderRequest) (domain.PricedOrder, error) {
	if strings.TrimSpace(req.FileURL) == "" {
		return domain.PricedOrder{}, domain.ValidationError("missing file URL")
	}

	pages := CanonicalPages(req.PageCount)
	printType := domain.ParsePrintType(string(req.PrintType))
	mailType := domain.ParseMailType(string(req.MailType))
	paperSize := domain.ParsePaperSize(string(req.PaperSize))
	r := e.rates

	items := make([]domain.LineItem, 0, 6)

	items = append(items, domain.LineItem{
		Name:            "Service Fee",
		Description:     "Handling and processing",
		UnitAmountCents: r.BaseFeeCents,
		Quantity:        1,
	})

	perPage := r.perPageCents(printType)
	printName := "B&W Printing"
	if printType == domain.PrintColor {
		printName = "COLOR Printing"
	}
	items = append(items, domain.LineItem{
		Name:            printName,
		Description:     fmt.Sprintf("%d %s × $%s/page", pages, pluralPages(pages), dollars(perPage)),
		UnitAmountCents: perPage,
		Quantity:        int64(pages),
	})

	if paperSize == domain.PaperLegal && r.LegalSurchargeCents > 0 {
		items = append(items, domain.LineItem{
			Name:            "Legal Paper Surcharge",
			Description:     fmt.Sprintf("%d %s × $%s/page", pages, pluralPages(pages), dollars(r.LegalSurchargeCents)),
			UnitAmountCents: r.LegalSurchargeCents,
			Quantity:        int64(pages),
		})
	}

	if pages >= r.VolumeThresholdPages && r.VolumeFeeCents > 0 {
		items = append(items, domain.LineItem{
			Name:            "Large Order Fee",
			Description:     fmt.Sprintf("Orders with %d or more pages", r.VolumeThresholdPages),
			UnitAmountCents: r.VolumeFeeCents,
			Quantity:        1,
		})
	}

	items = append(items, domain.LineItem{
		Name:            mailDisplayName(mailType),
		Description:     strings.ToUpper(string(paperSize)) + " paper",
		UnitAmountCents: r.MailCents(mailType),
		Quantity:        1,
	})

	var total int64
	for _, it := range items {
		total += it.UnitAmountCents * it.Quantity
	}

	// The floor is applied as an explicit adjustment item, never by silently
	// inflating an existing item.
	if total < r.MinimumOrderCents {
		adjustment := r.MinimumOrderCents - total
		items = append(items, domain.LineItem{
			Name:            "Minimum Order Adjustment",
			Description:     "Minimum order total: $" + dollars(r.MinimumOrderCents),
			UnitAmountCents: adjustment,
			Quantity:        1,
		})
		total = r.MinimumOrderCents
	}

	return domain.PricedOrder{Items: items, TotalCents: total}, nil
}

func mailDisplayName(mt domain.MailType) string {
	switch mt {
	case domain.MailStandard:
		return "Standard Mail"
	case domain.MailFirstClass:
		return "First-Class Mail"
	case domain.MailCertified:
		return "Certified Mail"
	case domain.MailPriority:
		return "Priority Mail"
	case domain.MailLarge:
		return "Priority Mail (Large Envelope)"
	default:
		return "Standard Mail (Economy)"
	}
}

func pluralPages(n int) string {
	if n == 1 {
		return "page"
	}
	return "pages"
}

func dollars(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
