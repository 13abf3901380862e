package entity

// CartItemDetail is an immutable snapshot derived from one catalog
// search hit.
type CartItemDetail struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Amount         int     `json:"amount"`
	Retailer       string  `json:"retailer"`
	ReviewRating   float64 `json:"reviewRating"`
	ReviewsCount   int     `json:"reviewsCount"`
	DeliveryTimeMs int64   `json:"deliveryTimeMs"`
	ImageURL       string  `json:"imageUrl,omitempty"`
}

// CartItem carries the four picks for one shopping-list entry. All
// four reference items drawn from the same candidate pool.
type CartItem struct {
	RecommendedItem CartItemDetail `json:"recommendedItem"`
	CheapestItem    CartItemDetail `json:"cheapestItem"`
	BestRatingItem  CartItemDetail `json:"bestRatingItem"`
	FastestDelivery CartItemDetail `json:"fastestDeliveryItem"`
}

type ShoppingCart struct {
	Items []CartItem `json:"items"`
	Price float64    `json:"price"`
}

// SponsoredItem identifies one cart item inside a retailer's
// negotiation batch.
type SponsoredItem struct {
	Item string `json:"item"`
	ID   string `json:"id,omitempty"`
}

// RetailerBatch groups the cart items sourced from one retailer, in
// cart insertion order. Batches are a slice rather than a map so the
// drip-feed of offers follows a stable order.
type RetailerBatch struct {
	Retailer string          `json:"retailer"`
	Items    []SponsoredItem `json:"items"`
}

const (
	OfferApproved = "approved"
	OfferRejected = "rejected"
)

type DiscountedItem struct {
	Item    string `json:"item"`
	ID      string `json:"id,omitempty"`
	Percent int    `json:"percent"`
}

type RetailerOffer struct {
	Retailer        string           `json:"retailer"`
	Status          string           `json:"status"`
	Reason          string           `json:"reason,omitempty"`
	DiscountPercent *int             `json:"discountPercent,omitempty"`
	DiscountedItems []DiscountedItem `json:"discountedItems"`
}
