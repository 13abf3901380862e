package planner

import "Eventra/pkg/response"

var (
	ErrSessionNotFound       = response.NewError(404, "session not found")
	ErrEmptyEventDescription = response.NewError(400, "empty event description")
	ErrTreeGenerationFailed  = response.NewError(500, "failed to generate planning trees")
	ErrListGenerationFailed  = response.NewError(500, "failed to generate shopping list")
	ErrIncompleteForm        = response.NewError(400, "planning form is incomplete")
)
