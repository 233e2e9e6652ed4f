// Package sources holds the upstream data-source clients and the deterministic
// fallbacks substituted when a source fails. Clients report failure through the
// envelope, not through Go errors: a non-2xx transport response and a
// success:false payload are the same condition to callers, and both route the
// data service to its fallback path.
package sources

// Envelope is the response contract shared by every upstream source.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failure builds an unsuccessful envelope with a source-supplied reason.
func Failure[T any](reason string) Envelope[T] {
	return Envelope[T]{Success: false, Error: reason}
}
