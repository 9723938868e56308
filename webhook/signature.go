package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignaturePrefix precedes the hex digest in a signature.
const SignaturePrefix = "sha256="

// SignatureHeader is the request header carrying the signature.
const SignatureHeader = "X-Synthesia-Signature"

// Sign returns the signature of payload under secret: "sha256=" followed by
// the hex encoded HMAC-SHA256.
func Sign(payload []byte, secret string) string {
	return SignaturePrefix + hex.EncodeToString(computeMAC(payload, secret))
}

// VerifySignature reports whether signature is the HMAC-SHA256 of payload under secret.
// A missing prefix, a digest that is not hex or not 32 bytes long, or an empty secret
// never match. The comparison runs in constant time.
func VerifySignature(payload []byte, signature, secret string) bool {
	if secret == "" {
		return false
	}
	digest, ok := strings.CutPrefix(strings.TrimSpace(signature), SignaturePrefix)
	if !ok {
		return false
	}
	got, err := hex.DecodeString(digest)
	if err != nil || len(got) != sha256.Size {
		return false
	}
	return hmac.Equal(got, computeMAC(payload, secret))
}

func computeMAC(payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}
