package pricing

import (
	"reflect"
	"testing"

	"printpost-backend/internal/domain"
)

func testRates() RateTable {
	return RateTable{
		BaseFeeCents:         100,
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

func baseRequest() domain.OrderRequest {
	return domain.OrderRequest{
		FileURL:   "https://files.example.com/doc.pdf",
		PageCount: "3",
		PrintType: domain.PrintBW,
		MailType:  domain.MailEconomy,
		PaperSize: domain.PaperLetter,
	}
}

func findItem(t *testing.T, po domain.PricedOrder, name string) *domain.LineItem {
	t.Helper()
	for i := range po.Items {
		if po.Items[i].Name == name {
			return &po.Items[i]
		}
	}
	return nil
}

func TestRateMissingFileURL(t *testing.T) {
	e := New(testRates())
	req := baseRequest()
	req.FileURL = "  "
	_, err := e.Rate(req)
	if _, ok := err.(domain.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRateWorkedExample(t *testing.T) {
	// 12 color legal pages by economy mail:
	// printing 12×85=1020, legal 12×10=120, volume 500, mail 400, base 100.
	e := New(testRates())
	req := domain.OrderRequest{
		FileURL:   "https://files.example.com/doc.pdf",
		PageCount: "12",
		PrintType: domain.PrintColor,
		MailType:  domain.MailEconomy,
		PaperSize: domain.PaperLegal,
	}
	po, err := e.Rate(req)
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	if po.TotalCents != 2140 {
		t.Fatalf("total = %d, want 2140", po.TotalCents)
	}
	if it := findItem(t, po, "Minimum Order Adjustment"); it != nil {
		t.Fatalf("unexpected adjustment item: %+v", it)
	}
	var sum int64
	for _, it := range po.Items {
		sum += it.UnitAmountCents * it.Quantity
	}
	if sum != po.TotalCents {
		t.Fatalf("sum of items %d != total %d", sum, po.TotalCents)
	}
}

func TestRateDeterministic(t *testing.T) {
	e := New(testRates())
	req := baseRequest()
	a, err := e.Rate(req)
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	b, err := e.Rate(req)
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated Rate differs:\n%+v\n%+v", a, b)
	}
}

func TestCanonicalPages(t *testing.T) {
	cases := map[string]int{
		"":     1,
		"0":    1,
		"-3":   1,
		"abc":  1,
		"1":    1,
		" 7 ":  7,
		"12":   12,
		"3.5":  1,
		"1e2":  1,
	}
	for raw, want := range cases {
		if got := CanonicalPages(raw); got != want {
			t.Fatalf("CanonicalPages(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestRateLegalSurchargePresence(t *testing.T) {
	e := New(testRates())

	req := baseRequest()
	req.PaperSize = domain.PaperLegal
	req.PageCount = "4"
	po, err := e.Rate(req)
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	it := findItem(t, po, "Legal Paper Surcharge")
	if it == nil {
		t.Fatalf("legal surcharge item missing for legal paper")
	}
	if it.UnitAmountCents != 10 || it.Quantity != 4 {
		t.Fatalf("legal surcharge = %d×%d, want 10×4", it.UnitAmountCents, it.Quantity)
	}

	req.PaperSize = domain.PaperLetter
	po, err = e.Rate(req)
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	if findItem(t, po, "Legal Paper Surcharge") != nil {
		t.Fatalf("legal surcharge item present for letter paper")
	}
}

func TestRateVolumeFeePresence(t *testing.T) {
	e := New(testRates())

	req := baseRequest()
	req.PageCount = "10"
	po, err := e.Rate(req)
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	if findItem(t, po, "Large Order Fee") == nil {
		t.Fatalf("volume fee missing at threshold")
	}

	req.PageCount = "9"
	po, err = e.Rate(req)
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	if findItem(t, po, "Large Order Fee") != nil {
		t.Fatalf("volume fee present below threshold")
	}
}

func TestRateUnknownMailTypeUsesDefault(t *testing.T) {
	e := New(testRates())
	req := baseRequest()
	req.MailType = "pigeon"
	po, err := e.Rate(req)
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	it := findItem(t, po, "Standard Mail (Economy)")
	if it == nil {
		t.Fatalf("default mail class item missing")
	}
	if it.UnitAmountCents != 400 {
		t.Fatalf("default mail cents = %d, want 400", it.UnitAmountCents)
	}
}

func TestRateMinimumOrderAdjustment(t *testing.T) {
	rates := testRates()
	rates.MinimumOrderCents = 2000
	e := New(rates)

	req := baseRequest()
	req.PageCount = "1"
	po, err := e.Rate(req)
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	// base 100 + printing 30 + mail 400 = 530
	it := findItem(t, po, "Minimum Order Adjustment")
	if it == nil {
		t.Fatalf("adjustment item missing below floor")
	}
	if it.UnitAmountCents != 2000-530 {
		t.Fatalf("adjustment = %d, want %d", it.UnitAmountCents, 2000-530)
	}
	if po.TotalCents != 2000 {
		t.Fatalf("total = %d, want floor 2000", po.TotalCents)
	}
}

func TestRateTotalsAlwaysAtFloorOrAbove(t *testing.T) {
	e := New(testRates())
	for _, pc := range []string{"0", "1", "5", "9", "10", "50", "junk"} {
		for _, pt := range []domain.PrintType{domain.PrintBW, domain.PrintColor} {
			req := baseRequest()
			req.PageCount = pc
			req.PrintType = pt
			po, err := e.Rate(req)
			if err != nil {
				t.Fatalf("Rate error: %v", err)
			}
			if po.TotalCents < e.Rates().MinimumOrderCents {
				t.Fatalf("total %d below floor for pages=%q print=%s", po.TotalCents, pc, pt)
			}
			var sum int64
			for _, it := range po.Items {
				sum += it.UnitAmountCents * it.Quantity
			}
			if sum != po.TotalCents {
				t.Fatalf("sum %d != total %d for pages=%q", sum, po.TotalCents, pc)
			}
		}
	}
}
