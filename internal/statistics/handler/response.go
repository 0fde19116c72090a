// Package handler provides response helpers for the statistics module.
package handler

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents the error envelope returned by all handlers.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// errorResponse writes a JSON error envelope.
func errorResponse(c *gin.Context, code, message, redirect string, statusCode int) {
	resp := ErrorResponse{Redirect: redirect}
	resp.Error.Code = code
	resp.Error.Message = message
	c.JSON(statusCode, resp)
}
