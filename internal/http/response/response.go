package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError classifies a service error. Storage and unknown failures get a generic
// message; their detail belongs in the log, not the response.
func RespondServiceError(c *gin.Context, err error) {
	status, code := apierr.Classify(err)
	var msg string
	switch {
	case errors.Is(err, apierr.ErrUnauthorized):
		msg = "Unauthorized"
	case errors.Is(err, apierr.ErrNotFound):
		msg = "Not found"
	case errors.Is(err, apierr.ErrInvalidArgument):
		msg = err.Error()
	case errors.Is(err, apierr.ErrGeneration):
		msg = "Content generation failed"
	default:
		msg = "Internal server error"
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorEnvelope{
		Error: APIError{Message: "Unauthorized", Code: "unauthorized"},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
