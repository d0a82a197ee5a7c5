// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dravik/licensing-console/internal/i18n"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// MessageResponse answers 200 with data and a user-facing message.
func MessageResponse(c *gin.Context, data interface{}, msg i18n.Message) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Message: msg.Render(GetLangFromContext(c)),
	})
}

func CreatedResponse(c *gin.Context, data interface{}, msg i18n.Message) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
		Message: msg.Render(GetLangFromContext(c)),
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// MessageErrorResponse renders msg in the request language.
func MessageErrorResponse(c *gin.Context, statusCode int, code string, msg i18n.Message, details interface{}) {
	ErrorResponse(c, statusCode, code, msg.Render(GetLangFromContext(c)), details)
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyInvalidRequest)
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyAuthRequired)
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func NotFoundResponse(c *gin.Context, key string) {
	lang := GetLangFromContext(c)
	if key == "" {
		key = i18n.KeyNotFound
	}
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, key), nil)
}

func ConflictResponse(c *gin.Context, msg i18n.Message) {
	MessageErrorResponse(c, http.StatusConflict, "CONFLICT", msg, nil)
}

// BadGatewayResponse reports a failure of the backend or the wallet.
func BadGatewayResponse(c *gin.Context, msg i18n.Message) {
	MessageErrorResponse(c, http.StatusBadGateway, "UPSTREAM_ERROR", msg, nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyInternalError)
	}
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

// ValidationErrorResponse answers 400 with the per-field errors as details.
// A zero msg falls back to the generic "fix errors" text.
func ValidationErrorResponse(c *gin.Context, msg i18n.Message, errors []ValidationError) {
	if msg.IsZero() {
		msg = i18n.M(i18n.KeyFixErrors)
	}
	var details interface{}
	if len(errors) > 0 {
		details = errors
	}
	MessageErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", msg, details)
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLang
}
