package domain

import (
	"strings"
	"time"
)

type PrintType string

const (
	PrintBW    PrintType = "bw"
	PrintColor PrintType = "color"
)

// ParsePrintType maps unknown or empty input to black-and-white.
func ParsePrintType(s string) PrintType {
	if strings.ToLower(strings.TrimSpace(s)) == string(PrintColor) {
		return PrintColor
	}
	return PrintBW
}

type PaperSize string

const (
	PaperLetter PaperSize = "letter"
	PaperLegal  PaperSize = "legal"
)

func ParsePaperSize(s string) PaperSize {
	if strings.ToLower(strings.TrimSpace(s)) == string(PaperLegal) {
		return PaperLegal
	}
	return PaperLetter
}

type MailType string

const (
	MailEconomy    MailType = "economy"
	MailStandard   MailType = "standard"
	MailFirstClass MailType = "first_class"
	MailCertified  MailType = "certified"
	MailPriority   MailType = "priority"
	MailLarge      MailType = "large"
)

// MailDefault is the class used when a request or event names no
// recognizable mail class.
const MailDefault = MailEconomy

func ParseMailType(s string) MailType {
	mt := MailType(strings.ToLower(strings.TrimSpace(s)))
	switch mt {
	case MailEconomy, MailStandard, MailFirstClass, MailCertified, MailPriority, MailLarge:
		return mt
	default:
		return MailDefault
	}
}

type PartyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// OrderRequest is the untrusted client input for one print-and-mail order.
// PageCount is kept raw; pricing canonicalizes it.
type OrderRequest struct {
	FileURL       string    `json:"fileUrl"`
	PageCount     string    `json:"pageCount"`
	PrintType     PrintType `json:"printType"`
	MailType      MailType  `json:"mailType"`
	PaperSize     PaperSize `json:"paperSize"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	Sender        PartyInfo `json:"sender"`
	Recipient     PartyInfo `json:"recipient"`
}

// LineItem is one priced receipt row. Item order defines presentation,
// not settlement semantics.
type LineItem struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	UnitAmountCents int64  `json:"unitAmountCents"`
	Quantity        int64  `json:"quantity"`
}

type PricedOrder struct {
	Items      []LineItem        `json:"items"`
	TotalCents int64             `json:"totalCents"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// OrderRecord is the fulfillment-ready order reconstructed from a
// payment-completion event. It is built from session metadata only;
// processor-populated shipping fields are not trusted.
type OrderRecord struct {
	SessionID        string    `json:"sessionId"`
	PaymentStatus    string    `json:"paymentStatus"`
	AmountTotalCents int64     `json:"amountTotalCents"`
	FileURL          string    `json:"fileUrl"`
	PrintType        PrintType `json:"printType"`
	MailType         MailType  `json:"mailType"`
	PaperSize        PaperSize `json:"paperSize"`
	PageCount        int       `json:"pageCount"`
	SenderName       string    `json:"senderName"`
	SenderAddress    string    `json:"senderAddress"`
	SenderEmail      string    `json:"senderEmail"`
	RecipientName    string    `json:"recipientName"`
	RecipientAddress string    `json:"recipientAddress"`
	OrderDate        time.Time `json:"orderDate"`
	CreatedAt        time.Time `json:"createdAt"`
}
