package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/verifeye-backend/internal/actions"
	"github.com/yungbote/verifeye-backend/internal/http/response"
	"github.com/yungbote/verifeye-backend/internal/platform/ctxutil"
	"github.com/yungbote/verifeye-backend/internal/services"
)

// ActionHandler serves POST /api/actions/:name. Known actions always answer 200 with their
// result body; failures are part of the body.
type ActionHandler struct {
	actions *actions.Actions
}

func NewActionHandler(a *actions.Actions) *ActionHandler {
	return &ActionHandler{actions: a}
}

const maxActionBody = 1 << 16

type actionArgs struct {
	services.ProfileInput
	Limit  int    `json:"limit"`
	UserID string `json:"userId"`
}

func (h *ActionHandler) Invoke(c *gin.Context) {
	var args actionArgs
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxActionBody)
	// An empty body means the action takes no arguments.
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	dbc := requestDBC(c)
	switch c.Param("name") {
	case "saveUserProfile":
		response.RespondOK(c, h.actions.SaveUserProfile(dbc, args.ProfileInput))
	case "fetchUserMessages":
		response.RespondOK(c, h.actions.FetchUserMessages(dbc))
	case "getUserXP":
		response.RespondOK(c, h.actions.GetUserXP(dbc))
	case "getUserStreak":
		response.RespondOK(c, h.actions.GetUserStreak(dbc))
	case "getUserActivities":
		response.RespondOK(c, h.actions.GetUserActivities(dbc, args.Limit))
	case "createSignupActivity":
		// Over HTTP the target is always the caller.
		caller := ctxutil.UserID(dbc.Ctx)
		if caller == uuid.Nil || (args.UserID != "" && !strings.EqualFold(strings.TrimSpace(args.UserID), caller.String())) {
			response.RespondOK(c, actions.SignupResult{Result: actions.Result{Error: actions.ErrMsgUnauthorized}})
			return
		}
		response.RespondOK(c, h.actions.CreateSignupActivity(dbc, caller))
	default:
		response.RespondError(c, http.StatusNotFound, "unknown_action", fmt.Errorf("unknown action %q", c.Param("name")))
	}
}
