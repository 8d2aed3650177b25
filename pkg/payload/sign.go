package payload

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// SignError reports a payload that cannot carry signing fields.
type SignError struct {
	Body any
}

func (e *SignError) Error() string {
	return fmt.Sprintf("signed payload must be a JSON object, got %T", e.Body)
}

// Sign computes the Lark/Feishu custom-bot signature for a timestamp
// and secret. The scheme keys the HMAC with "{timestamp}\n{secret}"
// and signs the empty message:
//
//	sign = base64(HMAC-SHA256(key: "{timestamp}\n{secret}", message: ""))
func Sign(secret string, now int64) string {
	key := strconv.FormatInt(now, 10) + "\n" + secret
	mac := hmac.New(sha256.New, []byte(key))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Augment attaches signing fields to a decoded body. A blank secret
// returns the body unchanged, whatever its shape. Otherwise the body
// must be a JSON object; the result is a copy with top-level
// "timestamp" (decimal seconds string) and "sign" set, overwriting any
// caller-supplied values of the same name. The input map is never
// mutated.
func Augment(body any, secret string, now int64) (any, error) {
	if strings.TrimSpace(secret) == "" {
		return body, nil
	}

	obj, ok := body.(map[string]any)
	if !ok {
		return nil, &SignError{Body: body}
	}

	signed := make(map[string]any, len(obj)+2)
	for k, v := range obj {
		signed[k] = v
	}
	signed["timestamp"] = strconv.FormatInt(now, 10)
	signed["sign"] = Sign(secret, now)

	return signed, nil
}
