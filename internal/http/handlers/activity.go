package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/verifeye-backend/internal/http/response"
	"github.com/yungbote/verifeye-backend/internal/platform/ctxutil"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/services"
)

type ActivityHandler struct {
	log         *logger.Logger
	activities  services.ActivityService
	leaderboard services.LeaderboardService
}

func NewActivityHandler(log *logger.Logger, activities services.ActivityService, leaderboard services.LeaderboardService) *ActivityHandler {
	return &ActivityHandler{
		log:         log.With("handler", "ActivityHandler"),
		activities:  activities,
		leaderboard: leaderboard,
	}
}

// GET /api/xp
func (h *ActivityHandler) GetXP(c *gin.Context) {
	dbc := requestDBC(c)
	xp, err := h.activities.TotalXP(dbc, ctxutil.UserID(dbc.Ctx))
	if err != nil {
		h.log.Warn("TotalXP failed", "error", err)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"xp": xp})
}

// GET /api/activities?limit=N
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	dbc := requestDBC(c)
	rows, err := h.activities.RecentActivities(dbc, ctxutil.UserID(dbc.Ctx), queryLimit(c))
	if err != nil {
		h.log.Warn("RecentActivities failed", "error", err)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activities": rows})
}

// GET /api/leaderboard?limit=N
func (h *ActivityHandler) GetLeaderboard(c *gin.Context) {
	board, err := h.leaderboard.Top(requestDBC(c), queryLimit(c))
	if err != nil {
		h.log.Warn("Leaderboard failed", "error", err)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, board)
}
