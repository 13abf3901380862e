package shopping

import (
	"Eventra/internal/entity"
)

type BuildCartRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type CartResponse struct {
	SessionID    string               `json:"session_id"`
	Cart         *entity.ShoppingCart `json:"cart"`
	MissingItems []string             `json:"missing_items"`
}

const (
	OfferEventStart = "negotiation_start"
	OfferEventEnd   = "negotiation_end"
)

// OfferEvent is one frame of the sponsorship websocket stream: a
// start frame announces a retailer is being negotiated with, the
// matching end frame carries the resolved offer.
type OfferEvent struct {
	Type     string                `json:"type"`
	Retailer string                `json:"retailer"`
	Offer    *entity.RetailerOffer `json:"offer,omitempty"`
}
