package planner

import (
	"Eventra/internal/entity"
)

type GenerateTreesRequest struct {
	SessionID   string `json:"session_id" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type TreesResponse struct {
	SessionID  string            `json:"session_id"`
	PeopleTree []entity.TreeNode `json:"people_tree"`
	PlaceTree  []entity.TreeNode `json:"place_tree"`
}

type FormFieldRequest struct {
	Label string `json:"label" validate:"required"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

type SubmitFormRequest struct {
	SessionID string             `json:"session_id" validate:"required"`
	Fields    []FormFieldRequest `json:"fields" validate:"required,dive"`
}

type FormResponse struct {
	SessionID string            `json:"session_id"`
	FormData  map[string]string `json:"form_data"`
}

type SessionResponse struct {
	Session *entity.Session `json:"session"`
}

// ShoppingListResult is what list generation hands back to callers:
// plain item names, the price range quoted per item and the quantity
// hints stripped from "(24 bottles)"-style suffixes.
type ShoppingListResult struct {
	Items         []string          `json:"items"`
	PriceRanges   map[string]string `json:"price_ranges"`
	QuantityHints map[string]int    `json:"quantity_hints"`
}
