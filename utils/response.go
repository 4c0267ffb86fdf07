package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StandardResponse represents the standard API response structure
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a standardized success response
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response
func Error(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, StandardResponse{
		Status:  "error",
		Message: message,
		Data:    data,
	})
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string, err interface{}) {
	var data interface{}
	if err != nil {
		data = gin.H{"error": err}
	}
	Error(c, http.StatusBadRequest, message, data)
}

// ValidationError sends a 422 Unprocessable Entity response
func ValidationError(c *gin.Context, message string, err interface{}) {
	var data interface{}
	if err != nil {
		data = gin.H{"error": err}
	}
	Error(c, http.StatusUnprocessableEntity, message, data)
}

// InternalServerError sends a 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message, nil)
}

// RespondWithError maps err onto the standard envelope. AppErrors keep their
// status, message and payload; the wrapped cause is only logged. Anything
// else becomes an opaque 500.
func RespondWithError(c *gin.Context, err error) {
	appErr := GetAppError(err)
	if appErr == nil {
		LogError("Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		InternalServerError(c, ErrInternalServer)
		return
	}

	if appErr.Code >= http.StatusInternalServerError {
		LogError("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, appErr)
	} else if appErr.Err != nil {
		LogDebug("%s %s rejected: %v", c.Request.Method, c.Request.URL.Path, appErr)
	}
	Error(c, appErr.Code, appErr.Message, appErr.Data)
}
