package admin

import "github.com/zopumarket/zopumarket/internal/provider"

// Handler serves the console API.
type Handler struct {
	*provider.Container
}

// New creates the console handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
