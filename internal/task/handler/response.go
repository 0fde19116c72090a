package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/festy23/task_manager/internal/validation"
)

// ErrorResponse represents the error envelope returned by all handlers.
// Redirect names the logical page the client should fall back to; TeamID
// is set when that page is a team page.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Redirect string              `json:"redirect,omitempty"`
	TeamID   int64               `json:"team_id,omitempty"`
	Fields   map[string][]string `json:"fields,omitempty"`
}

// errorResponse writes a JSON error envelope with a redirect hint.
func errorResponse(c *gin.Context, code, message, redirect string, teamID int64, statusCode int) {
	resp := ErrorResponse{Redirect: redirect, TeamID: teamID}
	resp.Error.Code = code
	resp.Error.Message = message
	c.JSON(statusCode, resp)
}

// validationResponse writes a 400 with per-field messages.
func validationResponse(c *gin.Context, vErr *validation.Error) {
	resp := ErrorResponse{Fields: vErr.Fields}
	resp.Error.Code = "VALIDATION_ERROR"
	resp.Error.Message = "validation failed"
	c.JSON(400, resp)
}
