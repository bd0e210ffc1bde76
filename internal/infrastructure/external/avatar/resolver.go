// Package avatar builds avatar URLs on the DiceBear HTTP API. Avatars are
// plain image URLs generated from a seed, so there is nothing to call at
// runtime; the resolver only assembles stable links.
package avatar

import (
	"net/url"
)

// DefaultBaseURL is the public DiceBear endpoint.
const DefaultBaseURL = "https://api.dicebear.com/7.x"

// DefaultStyle is the avatar collection used for all students.
const DefaultStyle = "avataaars"

// styleParams carries extra rendering options for special seeds sold in the
// shop. Unknown seeds render with no extras.
var styleParams = map[string]url.Values{
	"King":    {"clothing": {"graphicShirt"}},
	"Ninja":   {"clothing": {"blazerAndShirt"}},
	"Mystery": {"top": {"hat"}, "accessories": {"sunglasses"}, "clothing": {"blazerAndShirt"}, "skinColor": {"pale"}},
}

// Resolver assembles DiceBear avatar URLs. It implements command.AvatarResolver.
type Resolver struct {
	baseURL string
	style   string
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithBaseURL overrides the DiceBear endpoint (useful for a self-hosted
// instance).
func WithBaseURL(baseURL string) Option {
	return func(r *Resolver) {
		r.baseURL = baseURL
	}
}

// WithStyle overrides the avatar collection.
func WithStyle(style string) Option {
	return func(r *Resolver) {
		r.style = style
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		baseURL: DefaultBaseURL,
		style:   DefaultStyle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// URL implements command.AvatarResolver. The same seed always yields the
// same URL, so re-registering or re-buying is idempotent.
func (r *Resolver) URL(seed string) string {
	params := url.Values{"seed": {seed}}
	for key, values := range styleParams[seed] {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	return r.baseURL + "/" + r.style + "/svg?" + params.Encode()
}
