package shoppingService

import (
	"Eventra/internal/api/planner"
	"Eventra/internal/api/shopping"
	shoppingRepository "Eventra/internal/api/shopping/repository"
	"Eventra/internal/entity"
	"context"

	"github.com/sirupsen/logrus"
)

type IShoppingService interface {
	// BuildCart resolves the given shopping-list items against the
	// catalog and assembles the four picks per item. Items that
	// produce no usable candidate are returned as missing, never
	// silently dropped.
	BuildCart(ctx context.Context, session *entity.Session, list *planner.ShoppingListResult) (*entity.ShoppingCart, []string, error)

	// RetailerBatches groups cart items by recommended-item retailer
	// in cart insertion order.
	RetailerBatches(cart *entity.ShoppingCart) []entity.RetailerBatch

	// NegotiateSponsorship resolves all batches concurrently and
	// enforces the not-all-approved rule over the result.
	NegotiateSponsorship(ctx context.Context, batches []entity.RetailerBatch, eventContext string) []entity.RetailerOffer

	// StreamOffers drip-feeds start/end events per retailer with a
	// randomized pause between them.
	StreamOffers(ctx context.Context, sessionID string) (<-chan shopping.OfferEvent, error)

	BuildCartForSession(ctx context.Context, req shopping.BuildCartRequest) (*shopping.CartResponse, error)
}

type ShoppingConfig struct {
	SearchLimit       int     `json:"search_limit"`
	RejectProbability float64 `json:"reject_probability"`
	DiscountItemRatio float64 `json:"discount_item_ratio"`
	MinStreamDelayMs  int     `json:"min_stream_delay_ms"`
	MaxStreamDelayMs  int     `json:"max_stream_delay_ms"`
}

func DefaultShoppingConfig() *ShoppingConfig {
	return &ShoppingConfig{
		SearchLimit:       10,
		RejectProbability: 0.35,
		DiscountItemRatio: 0.2,
		MinStreamDelayMs:  2000,
		MaxStreamDelayMs:  4000,
	}
}

type shoppingService struct {
	log      *logrus.Logger
	repo     shoppingRepository.Repository
	planner  plannerContract
	sessions sessionGetter
	config   *ShoppingConfig
}

// plannerContract is the slice of the planner service the shopping
// flow consumes; declared locally to keep the dependency one-way.
type plannerContract interface {
	GenerateShoppingList(ctx context.Context, session *entity.Session) (*planner.ShoppingListResult, error)
}

type sessionGetter interface {
	GetOrCreate(ctx context.Context, id string) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
}

func NewShoppingService(
	log *logrus.Logger,
	repo shoppingRepository.Repository,
	plannerSvc plannerContract,
	sessions sessionGetter,
	config *ShoppingConfig,
) IShoppingService {
	if config == nil {
		config = DefaultShoppingConfig()
	}
	return &shoppingService{
		log:      log,
		repo:     repo,
		planner:  plannerSvc,
		sessions: sessions,
		config:   config,
	}
}
