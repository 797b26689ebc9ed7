package gateway

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// The gateway rejects any request whose signature deviates from its exact
// field order, including the five empty padding slots between the last
// carrier field and the salt. Rejection is silent, so the sequence below
// must never be reordered.

// SignatureEnvelope is the two-variant digest shape the gateway expects on
// checkout requests. V2 is the same field sequence signed with the salt
// reversed.
type SignatureEnvelope struct {
	V1 string `json:"v1"`
	V2 string `json:"v2"`
}

// CheckoutFields are the request fields covered by the outbound signature.
type CheckoutFields struct {
	TransactionID string
	Amount        string
	ProductInfo   string
	FirstName     string
	Email         string
	UDF1          string
	UDF2          string
	UDF3          string
	UDF4          string
	UDF5          string
}

// CheckoutHash signs a checkout request with the merchant key and salt.
func CheckoutHash(key, salt string, f CheckoutFields) SignatureEnvelope {
	parts := []string{
		key,
		f.TransactionID,
		f.Amount,
		f.ProductInfo,
		f.FirstName,
		f.Email,
		f.UDF1, f.UDF2, f.UDF3, f.UDF4, f.UDF5,
		"", "", "", "", "",
	}
	return SignatureEnvelope{
		V1: sha512Hex(strings.Join(parts, "|") + "|" + salt),
		V2: sha512Hex(strings.Join(parts, "|") + "|" + reverse(salt)),
	}
}

// CommandHash signs a server-to-server API call such as verify_payment.
func CommandHash(key, salt, command, var1 string) string {
	return sha512Hex(strings.Join([]string{key, command, var1, salt}, "|"))
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
