package handler

import (
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"

	"go-gin-event-registration/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleError translates a service error into the HTTP response:
// not-found sentinels → 404, validation sentinels → 400, anything else → 500.
func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case isNotFound(err):
		log.Warn("Resource not found")
		c.JSON(http.StatusNotFound, gin.H{"detail": errorMessage(err)})
	case isValidation(err):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"detail": errorMessage(err)})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, internalErrorBody(err, callerLine(2), debug.Stack()))
	}
}

// internalErrorBody is the diagnostic body of every 500 response.
func internalErrorBody(err interface{}, line string, stack []byte) gin.H {
	return gin.H{
		"detail":      "Internal Server Error",
		"error":       fmt.Sprint(err),
		"error_line":  fmt.Sprintf("%T: %v at %s", err, err, line),
		"stack_trace": string(stack),
	}
}

func callerLine(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// panicLine locates the frame that panicked: the first non-runtime frame
// below runtime.gopanic on the current stack.
func panicLine() string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	panicking := false
	for {
		frame, more := frames.Next()
		if panicking && !strings.HasPrefix(frame.Function, "runtime.") {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if frame.Function == "runtime.gopanic" {
			panicking = true
		}
		if !more {
			return "unknown"
		}
	}
}
