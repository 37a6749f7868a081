package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/openlearn/lms-extension-api/pkg/errors"
)

// MessageBody is the envelope used for human-readable outcomes. Every error
// surfaced by the API carries exactly this shape; internal identifiers and
// stack traces never leak into it.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON sends a raw success payload.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Message sends a message envelope with the given status.
func Message(c *gin.Context, status int, format string, args ...interface{}) {
	c.JSON(status, MessageBody{Message: fmt.Sprintf(format, args...)})
}

// Error normalises the error and sends its message envelope.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, MessageBody{Message: appErr.Message})
}

// NotFound sends an empty 404. Used when revealing resource existence to the
// caller would itself be a leak.
func NotFound(c *gin.Context) {
	c.Status(http.StatusNotFound)
}
