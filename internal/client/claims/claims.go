// Package claims reads the tenant identifier out of a bearer token.
//
// The token is never verified: only the payload segment is decoded and no
// signature check takes place. The result is a display and routing hint and
// must not be used to make an authorization decision.
package claims

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/plasticoslc/console/internal/common"
	"github.com/plasticoslc/console/internal/logging"
)

// TenantKeys are the payload claims that may carry a tenant id, in order of
// precedence.
var TenantKeys = []string{"tenantId", "tid", "tenant", "org", "orgId", "companyId"}

// FallbackKeys are consulted when no tenant claim matched. Only string
// values are accepted for them.
var FallbackKeys = []string{"sub", "aud"}

// Decoder extracts claims from compact dot-delimited tokens.
type Decoder struct {
	parser *jwt.Parser
	log    logging.Logger
}

// NewDecoder returns a Decoder reporting decode failures to log.
// A nil log discards them.
func NewDecoder(log logging.Logger) *Decoder {
	if log == nil {
		log = logging.Nop{}
	}
	return &Decoder{
		parser: jwt.NewParser(jwt.WithPaddingAllowed()),
		log:    log,
	}
}

// Payload decodes the second segment of token into a claim map. Numbers are
// kept as json.Number so their literal form survives.
func (d *Decoder) Payload(token string) (map[string]any, error) {
	if token == "" {
		return nil, common.ErrInvalidToken
	}
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, common.ErrInvalidToken
	}

	raw, err := d.parser.DecodeSegment(parts[1])
	if err != nil {
		// some issuers emit the standard alphabet
		raw, err = decodeStdSegment(parts[1])
		if err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse payload: %w", common.ErrorInvalidPayload)
	}
	return m, nil
}

var urlToStd = strings.NewReplacer("-", "+", "_", "/")

// decodeStdSegment maps the URL-safe alphabet onto the standard one, restores
// padding and decodes with base64.StdEncoding.
func decodeStdSegment(seg string) ([]byte, error) {
	seg = urlToStd.Replace(strings.TrimRight(seg, "="))
	if m := len(seg) % 4; m != 0 {
		seg += strings.Repeat("=", 4-m)
	}
	return base64.StdEncoding.DecodeString(seg)
}

// TenantID returns the tenant identifier carried by token, or ("", false).
// It never fails: malformed tokens are logged at warn level and reported as
// not found.
func (d *Decoder) TenantID(ctx context.Context, token string) (string, bool) {
	payload, err := d.Payload(token)
	if err != nil {
		if !errors.Is(err, common.ErrInvalidToken) {
			d.log.Warn(ctx, "failed to decode token payload", "error", err)
		}
		return "", false
	}
	return TenantFromClaims(payload)
}

// TenantFromClaims applies the claim precedence to a decoded payload.
func TenantFromClaims(payload map[string]any) (string, bool) {
	for _, k := range TenantKeys {
		switch v := payload[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s, true
			}
		case json.Number:
			return v.String(), true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}

	for _, k := range FallbackKeys {
		if v, ok := payload[k].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s, true
			}
		}
	}

	return "", false
}
