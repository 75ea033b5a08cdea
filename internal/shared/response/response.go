package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
	Total int `json:"total,omitempty"`
}

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes a failure envelope. detail is usually err.Error().
func Error(c *gin.Context, statusCode int, message string, detail string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Error:   detail,
	})
}

func BadRequest(c *gin.Context, detail string) {
	Error(c, 400, "Bad request", detail)
}

func Unauthorized(c *gin.Context, detail string) {
	Error(c, 401, "Unauthorized", detail)
}

func Forbidden(c *gin.Context, detail string) {
	Error(c, 403, "Forbidden", detail)
}

func NotFound(c *gin.Context, detail string) {
	Error(c, 404, "Not found", detail)
}

func InternalServerError(c *gin.Context, detail string) {
	Error(c, 500, "Internal server error", detail)
}

// ValidationError writes a 400 with per-field messages when err carries
// ozzo validation errors and reports whether it did.
func ValidationError(c *gin.Context, err error) bool {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return false
	}
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Data:    fieldErrs,
		Error:   err.Error(),
	})
	return true
}
