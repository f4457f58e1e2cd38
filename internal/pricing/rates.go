package pricing

import "printpost-backend/internal/domain"

// RateTable is the canonical pricing configuration. All amounts are USD
// cents. There is exactly one table per process, established at start.
type RateTable struct {
	BaseFeeCents         int64
	PerPageBWCents       int64
	PerPageColorCents    int64
	LegalSurchargeCents  int64
	VolumeFeeCents       int64
	VolumeThresholdPages int
	MinimumOrderCents    int64

	MailEconomyCents    int64
	MailStandardCents   int64
	MailFirstClassCents int64
	MailCertifiedCents  int64
	MailPriorityCents   int64
	MailLargeCents      int64
}

func DefaultRates() RateTable {
	return RateTable{
		BaseFeeCents:         150,
		PerPageBWCents:       30,
		PerPageColorCents:    85,
		LegalSurchargeCents:  10,
		VolumeFeeCents:       500,
		VolumeThresholdPages: 10,
		MinimumOrderCents:    500,
		MailEconomyCents:     400,
		MailStandardCents:    400,
		MailFirstClassCents:  650,
		MailCertifiedCents:   1100,
		MailPriorityCents:    1900,
		MailLargeCents:       1900,
	}
}

// MailCents is exhaustive over the mail-class enumeration. ParseMailType has
// already folded unrecognized input into the default class.
func (r RateTable) MailCents(mt domain.MailType) int64 {
	switch mt {
	case domain.MailStandard:
		return r.MailStandardCents
	case domain.MailFirstClass:
		return r.MailFirstClassCents
	case domain.MailCertified:
		return r.MailCertifiedCents
	case domain.MailPriority:
		return r.MailPriorityCents
	case domain.MailLarge:
		return r.MailLargeCents
	default:
		return r.MailEconomyCents
	}
}

func (r RateTable) perPageCents(pt domain.PrintType) int64 {
	if pt == domain.PrintColor {
		return r.PerPageColorCents
	}
	return r.PerPageBWCents
}
