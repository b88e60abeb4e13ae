package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/verifeye-backend/internal/http/response"
	"github.com/yungbote/verifeye-backend/internal/services"
)

type CurriculumHandler struct {
	curriculum services.CurriculumService
}

func NewCurriculumHandler(curriculum services.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculum: curriculum}
}

// GET /api/courses
func (h *CurriculumHandler) ListCourses(c *gin.Context) {
	courses, err := h.curriculum.ListCourses(requestDBC(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// POST /api/lessons/:id/complete
// :id is the lesson key, e.g. "what-are-scams".
func (h *CurriculumHandler) CompleteLesson(c *gin.Context) {
	res, err := h.curriculum.CompleteLesson(requestDBC(c), c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/badges
func (h *CurriculumHandler) ListBadges(c *gin.Context) {
	badges, err := h.curriculum.ListBadges(requestDBC(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"badges": badges})
}
