package public

import "github.com/zopumarket/zopumarket/internal/provider"

// Handler serves the storefront, buyer and partner portal APIs.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
