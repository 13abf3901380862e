package shopping

import "Eventra/pkg/response"

var (
	ErrEmptyShoppingList   = response.NewError(400, "empty shopping list")
	ErrCatalogUnavailable  = response.NewError(500, "product catalog unavailable")
	ErrCartNotFound        = response.NewError(404, "no cart for session")
	ErrSponsorshipNotReady = response.NewError(409, "cart not built yet")
)
