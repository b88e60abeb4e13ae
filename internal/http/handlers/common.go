package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
)

func requestDBC(c *gin.Context) dbctx.Context {
	return dbctx.Of(c.Request.Context())
}

// queryLimit reads ?limit=N. Missing or malformed values yield 0 so services apply their
// defaults.
func queryLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return n
}
