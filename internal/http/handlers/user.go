package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/verifeye-backend/internal/http/response"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/services"
)

type UserHandler struct {
	log        *logger.Logger
	users      services.UserService
	onboarding services.OnboardingService
}

func NewUserHandler(log *logger.Logger, users services.UserService, onboarding services.OnboardingService) *UserHandler {
	return &UserHandler{
		log:        log.With("handler", "UserHandler"),
		users:      users,
		onboarding: onboarding,
	}
}

// GET /api/user/me
func (h *UserHandler) GetMe(c *gin.Context) {
	me, err := h.users.GetMe(requestDBC(c))
	if err != nil {
		h.log.Warn("GetMe failed", "error", err)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, me)
}

// POST /api/user/profile
// body: { "age": 34, "gender": "female", "interests": "gardening" }
func (h *UserHandler) SaveProfile(c *gin.Context) {
	var req services.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.users.SaveProfile(requestDBC(c), req); err != nil {
		h.log.Warn("SaveProfile failed", "error", err)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// POST /api/onboarding
// Saves the profile, grants the signup XP and queues content generation. Poll the returned
// job at GET /api/jobs/:id.
func (h *UserHandler) CompleteOnboarding(c *gin.Context) {
	var req services.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.onboarding.CompleteOnboarding(requestDBC(c), req)
	if err != nil {
		h.log.Warn("CompleteOnboarding failed", "error", err)
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true, "job": res.Job, "jobCreated": res.JobCreated})
}

// GET /api/streak
func (h *UserHandler) GetStreak(c *gin.Context) {
	streak, err := h.users.GetStreak(requestDBC(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"streak": streak})
}
