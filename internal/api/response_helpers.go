// internal/api/response_helpers.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform success envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError carries a machine-readable code alongside the message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseHelper wraps the gin context with the envelope helpers.
type ResponseHelper struct {
	ctx *gin.Context
}

func NewResponseHelper(c *gin.Context) *ResponseHelper {
	return &ResponseHelper{ctx: c}
}

// Success sends a 200 with the payload wrapped in the envelope.
func (r *ResponseHelper) Success(data interface{}) {
	r.ctx.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created sends a 201 with the payload.
func (r *ResponseHelper) Created(data interface{}) {
	r.ctx.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error sends an error envelope with the given status.
func (r *ResponseHelper) Error(status int, code, message string) {
	r.ctx.JSON(status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	})
}

func (r *ResponseHelper) BadRequest(message string) {
	r.Error(http.StatusBadRequest, "bad_request", message)
}

func (r *ResponseHelper) NotFound(message string) {
	r.Error(http.StatusNotFound, "not_found", message)
}

func (r *ResponseHelper) InternalError(message string) {
	r.Error(http.StatusInternalServerError, "internal_error", message)
}

func (r *ResponseHelper) Conflict(message string) {
	r.Error(http.StatusConflict, "conflict", message)
}
