package domain

// Metadata keys carried through the payment session and echoed back verbatim
// on completion. This map is the single durable source of truth for an order
// across the payment boundary.
const (
	MetaFileURL          = "file_url"
	MetaPageCount        = "page_count"
	MetaPrintType        = "print_type"
	MetaMailType         = "mail_type"
	MetaPaperSize        = "paper_size"
	MetaTotalCents       = "total_cents"
	MetaOrderDate        = "order_date"
	MetaSenderName       = "sender_name"
	MetaSenderAddress    = "sender_address"
	MetaRecipientName    = "recipient_name"
	MetaRecipientAddress = "recipient_address"
	MetaCustomerEmail    = "customer_email"
)

// UnknownParty is the sentinel for sender/recipient fields absent from an
// older metadata schema.
const UnknownParty = "unknown"
