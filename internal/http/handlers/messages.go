package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/http/response"
	"github.com/yungbote/verifeye-backend/internal/platform/ctxutil"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/services"
)

type MessageHandler struct {
	log      *logger.Logger
	messages services.MessageService
	quiz     services.QuizService
}

func NewMessageHandler(log *logger.Logger, messages services.MessageService, quiz services.QuizService) *MessageHandler {
	return &MessageHandler{
		log:      log.With("handler", "MessageHandler"),
		messages: messages,
		quiz:     quiz,
	}
}

// GET /api/messages
func (h *MessageHandler) GetMessages(c *gin.Context) {
	dbc := requestDBC(c)
	msgs, err := h.messages.FetchPersonalizedMessages(dbc, ctxutil.UserID(dbc.Ctx))
	if err != nil {
		h.log.Warn("FetchPersonalizedMessages failed", "error", err)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, msgs)
}

// POST /api/quiz/answer
// body: { "kind": "email" | "text", "answer": "phishing" | "legitimate" | "click" | "ignore" }
func (h *MessageHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		Kind   string `json:"kind" binding:"required"`
		Answer string `json:"answer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.quiz.SubmitAnswer(requestDBC(c), types.ContentKind(strings.ToLower(strings.TrimSpace(req.Kind))), req.Answer)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}
