package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"gatepass/entity"
)

const commandVerifyPayment = "verify_payment"

// Client queries the payment gateway for the authoritative state of a
// transaction. It is constructed explicitly with the merchant credentials so
// tests can swap in a ClientMock.
type Client struct {
	key        string
	salt       string
	baseURL    string
	httpClient *http.Client
}

func NewClient(key, salt, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		key:        key,
		salt:       salt,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

type verifyResponse struct {
	Status             json.Number                   `json:"status"`
	Msg                string                        `json:"msg"`
	TransactionDetails map[string]transactionDetails `json:"transaction_details"`
}

type transactionDetails struct {
	MihpayID    string `json:"mihpayid"`
	Status      string `json:"status"`
	Amount      string `json:"amt"`
	ProductInfo string `json:"productinfo"`
	FirstName   string `json:"firstname"`
	Email       string `json:"email"`
	BankRefNum  string `json:"bank_ref_num"`
	Mode        string `json:"mode"`
	UDF1        string `json:"udf1"`
	UDF2        string `json:"udf2"`
	UDF3        string `json:"udf3"`
	UDF4        string `json:"udf4"`
	UDF5        string `json:"udf5"`
}

// VerifyTransaction returns the gateway's canonical record for the
// transaction id. An error here means truth could not be established and the
// whole callback must fail; callers must not fall back to client-echoed data.
func (c *Client) VerifyTransaction(ctx context.Context, transactionID string) (entity.Transaction, error) {
	form := url.Values{}
	form.Set("key", c.key)
	form.Set("command", commandVerifyPayment)
	form.Set("var1", transactionID)
	form.Set("hash", CommandHash(c.key, c.salt, commandVerifyPayment, transactionID))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/merchant/postservice?form=2",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return entity.Transaction{}, fmt.Errorf("could not build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.Transaction{}, fmt.Errorf("could not call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.Transaction{}, fmt.Errorf("unexpected status code for POST merchant/postservice: %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entity.Transaction{}, fmt.Errorf("could not decode gateway response: %w", err)
	}

	if body.Status.String() != "1" {
		return entity.Transaction{}, fmt.Errorf("gateway rejected verify_payment for %s: %s", transactionID, body.Msg)
	}

	details, ok := body.TransactionDetails[transactionID]
	if !ok {
		return entity.Transaction{}, fmt.Errorf("gateway has no record of transaction %s", transactionID)
	}

	return entity.Transaction{
		ID:          transactionID,
		ProcessorID: details.MihpayID,
		Status:      details.Status,
		Amount:      details.Amount,
		ProductInfo: details.ProductInfo,
		FirstName:   details.FirstName,
		Email:       details.Email,
		BankRefNum:  details.BankRefNum,
		Mode:        details.Mode,
		UDF1:        details.UDF1,
		UDF2:        details.UDF2,
		UDF3:        details.UDF3,
		UDF4:        details.UDF4,
		UDF5:        details.UDF5,
	}, nil
}
