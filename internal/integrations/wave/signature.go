package wave

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
)

// SignatureHeader carries "t=<unix>,v1=<hex>[,v1=<hex>...]".
const SignatureHeader = "Wave-Signature"

// Signature is a parsed Wave-Signature header.
type Signature struct {
	Timestamp int64
	// RawTimestamp is the t= value exactly as sent; it is what the MAC covers.
	RawTimestamp string
	V1           [][]byte
}

// ParseSignature parses the header value. Unknown schemes are ignored.
func ParseSignature(header string) (*Signature, error) {
	if strings.TrimSpace(header) == "" {
		return nil, fmt.Errorf("%w: missing %s header", apperrors.ErrInvalidSignature, SignatureHeader)
	}
	sig := &Signature{}
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("%w: malformed signature element", apperrors.ErrInvalidSignature)
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed timestamp", apperrors.ErrInvalidSignature)
			}
			sig.Timestamp = ts
			sig.RawTimestamp = value
		case "v1":
			mac, err := hex.DecodeString(value)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed v1 signature", apperrors.ErrInvalidSignature)
			}
			sig.V1 = append(sig.V1, mac)
		}
	}
	if sig.Timestamp == 0 || len(sig.V1) == 0 {
		return nil, fmt.Errorf("%w: timestamp and v1 signature are required", apperrors.ErrInvalidSignature)
	}
	return sig, nil
}

// CheckTimestamp rejects signatures older or newer than tolerance.
func (s *Signature) CheckTimestamp(now time.Time, tolerance time.Duration) error {
	signedAt := time.Unix(s.Timestamp, 0)
	if now.Sub(signedAt) > tolerance || signedAt.Sub(now) > tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", apperrors.ErrInvalidSignature)
	}
	return nil
}

// Matches reports whether any v1 signature is HMAC-SHA256(secret, t + body).
func (s *Signature) Matches(secret string, body []byte) bool {
	expected := computeMAC(secret, s.RawTimestamp, body)
	for _, candidate := range s.V1 {
		if hmac.Equal(expected, candidate) {
			return true
		}
	}
	return false
}

// Sign builds a header value for body; used by tests and local tooling.
func Sign(secret string, ts int64, body []byte) string {
	raw := strconv.FormatInt(ts, 10)
	return fmt.Sprintf("t=%s,v1=%s", raw, hex.EncodeToString(computeMAC(secret, raw, body)))
}

func computeMAC(secret, rawTimestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(rawTimestamp))
	mac.Write(body)
	return mac.Sum(nil)
}
