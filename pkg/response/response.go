package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PageResponse is the envelope for page-data (GET) endpoints. POST actions
// answer with a flash-message redirect instead; Flash carries the one-shot
// message popped for this page load.
type PageResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Flash     string    `json:"flash,omitempty"`
	Data      T         `json:"data,omitempty"`
	Error     any       `json:"error,omitempty"`
}

func Page[T any](ctx *gin.Context, status int, flash string, data T) PageResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return PageResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Flash:     flash,
		Data:      data,
	}
}

func Error[T any](ctx *gin.Context, status int, err any) PageResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return PageResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Error:     err,
	}
}
