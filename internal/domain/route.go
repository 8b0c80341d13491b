package domain

import (
	"errors"

	"pivot/pkg/validator"
)

// Route maps a short key to the URL it redirects to.
type Route struct {
	Key    string // Path segment after /r/ (e.g. "docs")
	Target string // Absolute URL the key redirects to
}

// Routes is the whole route table, keyed by route key.
// It is also the on-disk shape: one JSON object of key -> URL.
type Routes map[string]string

// Domain errors. Handlers map these onto HTTP status codes with errors.Is.
var (
	ErrRouteNotFound  = errors.New("route not found")
	ErrRouteExists    = errors.New("route already exists")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrInvalidURL     = errors.New("invalid URL")
)

// NewRoute builds a Route from a create request.
func NewRoute(key, target string) *Route {
	return &Route{Key: key, Target: target}
}

// ValidateFields checks that both key and target are present.
// Whitespace-only values count as present; only the empty string is rejected.
func (r *Route) ValidateFields() error {
	if r.Key == "" || r.Target == "" {
		return ErrInvalidPayload
	}
	return nil
}

// ValidateTarget checks that the target is a syntactically valid URL.
func (r *Route) ValidateTarget() error {
	if err := validator.ValidateURL(r.Target); err != nil {
		return ErrInvalidURL
	}
	return nil
}

// WithFragment returns the redirect location for the route, appending
// "#fragment" when a fragment segment was supplied.
func WithFragment(target, fragment string) string {
	if fragment == "" {
		return target
	}
	return target + "#" + fragment
}

// Clone returns a copy of the table that is safe to hand to callers.
func (rs Routes) Clone() Routes {
	out := make(Routes, len(rs))
	for k, v := range rs {
		out[k] = v
	}
	return out
}
