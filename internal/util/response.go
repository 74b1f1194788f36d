package util

import (
	"github.com/gin-gonic/gin"
)

// Business error codes carried in the "code" field of error bodies.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// Meta describes one page of a list response.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Success writes a mutation result: {message, data?}.
func Success(c *gin.Context, httpStatus int, msg string, data any) {
	body := gin.H{"message": msg}
	if data != nil {
		body["data"] = data
	}
	c.JSON(httpStatus, body)
}

// List writes a paginated collection: {data, meta}.
func List(c *gin.Context, data any, meta Meta) {
	c.JSON(200, gin.H{
		"data": data,
		"meta": meta,
	})
}

// Error writes a failure body: {message, error: true, code}.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"message": msg,
		"error":   true,
		"code":    code,
	})
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, httpStatus int, code int, msg string) {
	Error(c, httpStatus, code, msg)
	c.Abort()
}
