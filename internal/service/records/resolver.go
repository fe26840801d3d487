package records

import (
	"errors"
	"net/url"
	"strings"

	"github.com/farmovs/decanting/internal/qr"
)

// ErrMalformedToken indicates an empty or unusable scan input. It is rejected
// before any store round-trip.
var ErrMalformedToken = errors.New("token is empty or unusable")

// CanonicalID extracts the record identifier from a scanned or typed token.
// A token carrying the /record/ path marker is treated as a record URL and
// reduced to its final path segment; anything else is the identifier itself.
// The same QR payload therefore works in a generic camera app (as a link) and
// in the register's own scanner (as a bare id).
func CanonicalID(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", ErrMalformedToken
	}

	if strings.Contains(trimmed, qr.RecordPathMarker) {
		if parsed, err := url.Parse(trimmed); err == nil {
			path := strings.TrimSuffix(parsed.Path, "/")
			segments := strings.Split(path, "/")
			if id := segments[len(segments)-1]; id != "" {
				return id, nil
			}
			return "", ErrMalformedToken
		}
	}

	return trimmed, nil
}
