package reconcile

import (
	"encoding/json"
	"html"
	"net/url"
	"strconv"
	"strings"
)

// ProductInfo is the structured payload recovered from the free-text product
// descriptor the client sent to the gateway at checkout time. It is the
// lowest-precedence reconciliation source.
type ProductInfo struct {
	EventID    string
	UserID     string
	TicketType string
	Quantity   int
}

type productInfoJSON struct {
	EventID    string  `json:"eventId"`
	UserID     string  `json:"userId"`
	TicketType string  `json:"ticketType"`
	Quantity   flexInt `json:"quantity"`
}

// flexInt tolerates the quantity arriving as a JSON number or a quoted
// string; anything unparsable stays zero (absent).
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if v, err := strconv.Atoi(s); err == nil {
		*n = flexInt(v)
	}
	return nil
}

// DecodeProductInfo reverses the encoding applied before redirect:
// percent-encoding (which also folds '+' back to spaces), then HTML entity
// escaping, then parses the result as JSON. Malformed input of any kind
// yields nil rather than an error; reconciliation proceeds on the
// higher-precedence sources.
func DecodeProductInfo(raw string) *ProductInfo {
	if raw == "" {
		return nil
	}

	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	unescaped = html.UnescapeString(unescaped)

	var parsed productInfoJSON
	if err := json.Unmarshal([]byte(unescaped), &parsed); err != nil {
		return nil
	}

	return &ProductInfo{
		EventID:    parsed.EventID,
		UserID:     parsed.UserID,
		TicketType: parsed.TicketType,
		Quantity:   int(parsed.Quantity),
	}
}
