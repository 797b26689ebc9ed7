package entity

// Transaction is the canonical record of a payment attempt as reported by the
// gateway's verification API. Client-echoed callback fields are only hints;
// a Transaction returned by gateway.Client is the single source of truth for
// whether a payment succeeded.
type Transaction struct {
	ID          string `json:"txnid"`
	ProcessorID string `json:"mihpayid"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
	ProductInfo string `json:"productinfo"`
	FirstName   string `json:"firstname"`
	Email       string `json:"email"`
	BankRefNum  string `json:"bank_ref_num"`
	Mode        string `json:"mode"`

	// Carrier fields are opaque to the gateway and echoed back verbatim.
	// They smuggle trusted identifiers through the redirect round trip:
	// UDF1 event id, UDF2 user id, UDF3 ticket type, UDF4 quantity.
	// UDF5 is reserved for the attendee phone hint.
	UDF1 string `json:"udf1"`
	UDF2 string `json:"udf2"`
	UDF3 string `json:"udf3"`
	UDF4 string `json:"udf4"`
	UDF5 string `json:"udf5"`
}

const (
	TransactionStatusSuccess = "success"
	TransactionStatusFailure = "failure"
	TransactionStatusPending = "pending"
)
