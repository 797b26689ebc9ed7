package artifact

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerificationToken derives the QR payload for a booking from its transaction
// id. A door scanner holding the same secret can recompute and compare the
// signature offline, without a round trip to the booking store.
func VerificationToken(transactionID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(transactionID))
	return transactionID + ":" + hex.EncodeToString(mac.Sum(nil))
}

// VerifyToken reports whether token is a valid payload and returns the
// transaction id it carries.
func VerifyToken(token, secret string) (string, bool) {
	id, _, found := strings.Cut(token, ":")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(VerificationToken(id, secret)), []byte(token)) {
		return "", false
	}
	return id, true
}
