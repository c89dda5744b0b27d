// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"warestock/internal/core/id"
	"warestock/internal/domain"
)

// PageQuery contains pagination query parameters.
type PageQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ToPageRequest normalizes the query into a page request.
func (p PageQuery) ToPageRequest(maxLimit int) domain.PageRequest {
	req := domain.PageRequest{Limit: p.Limit, Offset: p.Offset}
	req.Normalize(maxLimit)
	return req
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates an ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// SetActiveRequest toggles an entity's active flag.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
