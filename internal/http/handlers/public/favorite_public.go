package public

import (
	"strconv"

	"github.com/zopumarket/zopumarket/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ToggleFavoriteRequest targets one offer.
type ToggleFavoriteRequest struct {
	OfferID uint `json:"offer_id" binding:"required"`
}

// ToggleFavorite adds or removes an offer from the user's favorites.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	favorited, err := h.FavoriteService.Toggle(userID, req.OfferID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"favorited": favorited})
}

// GetFavorites lists the user's favorite offers.
func (h *Handler) GetFavorites(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	favorites, err := h.FavoriteService.ListForUser(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "favorite fetch failed", err)
		return
	}
	response.Success(c, favorites)
}

// GetFavoriteStatus reports whether one offer is favorited.
func (h *Handler) GetFavoriteStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	offerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || offerID == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", err)
		return
	}

	favorited, err := h.FavoriteService.IsFavorite(userID, uint(offerID))
	if err != nil {
		respondError(c, response.CodeInternal, "favorite fetch failed", err)
		return
	}
	response.Success(c, gin.H{"favorited": favorited})
}
