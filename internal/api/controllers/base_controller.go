package controllers

import (
	"github.com/gin-gonic/gin"

	"listaai/pkg/utils"
)

// currentUserID reads the id set by JWTAuthMiddleware.
func currentUserID(c *gin.Context) (uint, bool) {
	return utils.ParseID(c.GetString("user_id"))
}

// pathID parses a numeric path parameter. Malformed ids are reported with
// notFound, the same way a missing row would be.
func pathID(c *gin.Context, name string, notFound error) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		utils.HandleServiceError(c, notFound)
		return 0, false
	}
	return id, true
}
