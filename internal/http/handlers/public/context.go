package public

import (
	handlershared "github.com/zopumarket/zopumarket/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// getPartnerID reads the partner binding of a partner operator session.
func getPartnerID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "partner_id")
}
