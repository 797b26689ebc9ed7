package gateway

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutHash(t *testing.T) {
	fields := CheckoutFields{
		TransactionID: "T1",
		Amount:        "299",
		ProductInfo:   "tickets",
		FirstName:     "Jane",
		Email:         "jane@test.io",
		UDF1:          "42",
		UDF2:          "u1",
		UDF3:          "Regular",
		UDF4:          "1",
	}

	envelope := CheckoutHash("merchant-key", "s4lt", fields)

	v1 := sha512.Sum512([]byte("merchant-key|T1|299|tickets|Jane|jane@test.io|42|u1|Regular|1||||||" + "|s4lt"))
	v2 := sha512.Sum512([]byte("merchant-key|T1|299|tickets|Jane|jane@test.io|42|u1|Regular|1||||||" + "|tl4s"))

	assert.Equal(t, hex.EncodeToString(v1[:]), envelope.V1)
	assert.Equal(t, hex.EncodeToString(v2[:]), envelope.V2)
}

func TestCheckoutHash_EmptyFieldsKeepTheirSlots(t *testing.T) {
	a := CheckoutHash("k", "s", CheckoutFields{TransactionID: "T1", UDF1: "x"})
	b := CheckoutHash("k", "s", CheckoutFields{TransactionID: "T1", UDF2: "x"})

	// same values in different slots must not collide
	assert.NotEqual(t, a.V1, b.V1)
}

func TestCommandHash(t *testing.T) {
	want := sha512.Sum512([]byte("k|verify_payment|T1|s"))
	assert.Equal(t, hex.EncodeToString(want[:]), CommandHash("k", "s", "verify_payment", "T1"))
}
