package shoppingService

import (
	"Eventra/internal/api/planner"
	"Eventra/internal/api/shopping"
	shoppingRepository "Eventra/internal/api/shopping/repository"
	"Eventra/internal/entity"
	contextPkg "Eventra/pkg/context"
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

func (s *shoppingService) BuildCart(
	ctx context.Context,
	session *entity.Session,
	list *planner.ShoppingListResult,
) (*entity.ShoppingCart, []string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if list == nil || len(list.Items) == 0 {
		return nil, nil, shopping.ErrEmptyShoppingList
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, nil, shopping.ErrCatalogUnavailable
	}

	attendees := parseLeadingInt(session.FormData["number of attendees"])
	durationHours := parseLeadingInt(session.FormData["duration (hours)"])

	type itemResult struct {
		item    *entity.CartItem
		missing bool
	}

	// One search per item; results land in an index-addressed slice
	// so the cart keeps the shopping list's order regardless of
	// completion order.
	results := make([]itemResult, len(list.Items))
	var wg sync.WaitGroup
	for i, itemName := range list.Items {
		wg.Add(1)
		go func(i int, itemName string) {
			defer wg.Done()

			cartItem, ok := s.resolveItem(ctx, repo, itemName, list, attendees, durationHours)
			if !ok {
				results[i] = itemResult{missing: true}
				return
			}
			results[i] = itemResult{item: cartItem}
		}(i, itemName)
	}
	wg.Wait()

	cart := &entity.ShoppingCart{}
	var missing []string
	for i, result := range results {
		if result.missing {
			missing = append(missing, list.Items[i])
			continue
		}
		cart.Items = append(cart.Items, *result.item)
		cart.Price += result.item.RecommendedItem.Price * float64(result.item.RecommendedItem.Amount)
	}
	cart.Price = math.Round(cart.Price*100) / 100

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": session.ID,
		"cart_items": len(cart.Items),
		"missing":    len(missing),
	}).Info("Cart built")

	return cart, missing, nil
}

func (s *shoppingService) resolveItem(
	ctx context.Context,
	repo shoppingRepository.Client,
	itemName string,
	list *planner.ShoppingListResult,
	attendees int,
	durationHours int,
) (*entity.CartItem, bool) {
	requestID := contextPkg.GetRequestID(ctx)

	hits, err := repo.Catalog.Search(ctx, itemName, s.config.SearchLimit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"item":       itemName,
			"error":      err.Error(),
		}).Warn("Catalog search failed, reporting item as missing")
		return nil, false
	}
	if len(hits) == 0 {
		return nil, false
	}

	amount := list.QuantityHints[itemName]
	if amount <= 0 {
		amount = InferAmount(itemName, attendees, durationHours)
	}

	fallbackPrice := priceRangeFallback(list.PriceRanges[itemName])

	candidates := make([]candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, parseCandidate(hit, itemName, fallbackPrice, amount))
	}

	cartItem := selectCartItem(candidates)
	return &cartItem, true
}

func (s *shoppingService) RetailerBatches(cart *entity.ShoppingCart) []entity.RetailerBatch {
	var batches []entity.RetailerBatch
	index := map[string]int{}

	for _, item := range cart.Items {
		retailer := item.RecommendedItem.Retailer
		sponsored := entity.SponsoredItem{
			Item: item.RecommendedItem.Name,
			ID:   item.RecommendedItem.ID,
		}

		if i, ok := index[retailer]; ok {
			batches[i].Items = append(batches[i].Items, sponsored)
			continue
		}
		index[retailer] = len(batches)
		batches = append(batches, entity.RetailerBatch{
			Retailer: retailer,
			Items:    []entity.SponsoredItem{sponsored},
		})
	}

	return batches
}

func (s *shoppingService) BuildCartForSession(ctx context.Context, req shopping.BuildCartRequest) (*shopping.CartResponse, error) {
	session, err := s.sessions.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if len(session.FormData) == 0 {
		return nil, planner.ErrIncompleteForm
	}

	list, err := s.planner.GenerateShoppingList(ctx, session)
	if err != nil {
		return nil, err
	}

	cart, missing, err := s.BuildCart(ctx, session, list)
	if err != nil {
		return nil, err
	}

	if session.VoiceState == nil {
		session.VoiceState = entity.NewVoiceState()
	}
	session.VoiceState.ShoppingListItems = list.Items
	session.VoiceState.Cart = cart

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &shopping.CartResponse{
		SessionID:    session.ID,
		Cart:         cart,
		MissingItems: missing,
	}, nil
}

func parseLeadingInt(raw string) int {
	match := integerPattern.FindString(raw)
	if match == "" {
		return 0
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return value
}

func priceRangeFallback(priceRange string) float64 {
	match := decimalPattern.FindString(strings.TrimSpace(priceRange))
	if match == "" {
		return 0
	}
	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return price
}
