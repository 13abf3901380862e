package shoppingService

import (
	shoppingRepository "Eventra/internal/api/shopping/repository"
	"Eventra/internal/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hit(rank int, content string) shoppingRepository.SearchHit {
	return shoppingRepository.SearchHit{
		Item: entity.CatalogItem{
			ID:      int64(rank + 1),
			Source:  "catalog.csv",
			RowNum:  rank,
			Content: content,
		},
		Score: 90,
		Rank:  rank,
	}
}

func TestParseCandidate(t *testing.T) {
	c := parseCandidate(
		hit(0, "Name: Sparkling Water 12-pack, Price: $8.99, Retailer: FreshMart, Delivery estimate: 2 days, Review rating: 4.5, Reviews count: 321"),
		"sparkling water",
		0,
		24,
	)

	assert.Equal(t, "Sparkling Water 12-pack", c.detail.Name)
	assert.Equal(t, 8.99, c.detail.Price)
	assert.Equal(t, "FreshMart", c.detail.Retailer)
	assert.Equal(t, 2, c.deliveryDays)
	assert.Equal(t, int64(2*24*60*60*1000), c.detail.DeliveryTimeMs)
	assert.Equal(t, 4.5, c.detail.ReviewRating)
	assert.Equal(t, 321, c.detail.ReviewsCount)
	assert.Equal(t, 24, c.detail.Amount)
	assert.Equal(t, "catalog.csv:0", c.detail.ID)
}

func TestParseCandidate_Fallbacks(t *testing.T) {
	c := parseCandidate(hit(3, "Color: blue, Size: large"), "folding table", 12.50, 1)

	assert.Equal(t, "folding table", c.detail.Name)
	assert.Equal(t, 12.50, c.detail.Price)
	assert.Equal(t, "Unknown retailer", c.detail.Retailer)
	assert.Equal(t, 3, c.deliveryDays)
	assert.Equal(t, float64(0), c.detail.ReviewRating)
	assert.Equal(t, 0, c.detail.ReviewsCount)
}

func TestSelectCartItem_Properties(t *testing.T) {
	candidates := []candidate{
		parseCandidate(hit(0, "Name: A, Price: 10, Retailer: R1, Delivery estimate: 5 days, Review rating: 3.0"), "q", 0, 1),
		parseCandidate(hit(1, "Name: B, Price: 7, Retailer: R2, Delivery estimate: 4 days, Review rating: 4.0"), "q", 0, 1),
		parseCandidate(hit(2, "Name: C, Price: 12, Retailer: R3, Delivery estimate: 1 days, Review rating: 4.8"), "q", 0, 1),
	}

	item := selectCartItem(candidates)

	for _, c := range candidates {
		assert.LessOrEqual(t, item.CheapestItem.Price, c.detail.Price)
		assert.GreaterOrEqual(t, item.BestRatingItem.ReviewRating, c.detail.ReviewRating)
		assert.LessOrEqual(t, item.FastestDelivery.DeliveryTimeMs, c.detail.DeliveryTimeMs)
	}

	names := []string{item.CheapestItem.Name, item.BestRatingItem.Name, item.FastestDelivery.Name}
	assert.Contains(t, names, item.RecommendedItem.Name)
}

func TestSelectCartItem_MajorityVote(t *testing.T) {
	// B is both cheapest and fastest, so it wins the vote over the
	// better-rated C.
	candidates := []candidate{
		parseCandidate(hit(0, "Name: A, Price: 10, Delivery estimate: 5 days, Review rating: 3.0"), "q", 0, 1),
		parseCandidate(hit(1, "Name: B, Price: 7, Delivery estimate: 1 days, Review rating: 4.0"), "q", 0, 1),
		parseCandidate(hit(2, "Name: C, Price: 12, Delivery estimate: 3 days, Review rating: 4.8"), "q", 0, 1),
	}

	item := selectCartItem(candidates)
	assert.Equal(t, "B", item.RecommendedItem.Name)
}

func TestSelectCartItem_AllDistinctFallsBackToCheapest(t *testing.T) {
	candidates := []candidate{
		parseCandidate(hit(0, "Name: Cheap, Price: 5, Delivery estimate: 6 days, Review rating: 2.0"), "q", 0, 1),
		parseCandidate(hit(1, "Name: Fast, Price: 9, Delivery estimate: 1 days, Review rating: 3.0"), "q", 0, 1),
		parseCandidate(hit(2, "Name: Rated, Price: 11, Delivery estimate: 4 days, Review rating: 4.9"), "q", 0, 1),
	}

	item := selectCartItem(candidates)
	assert.Equal(t, "Cheap", item.RecommendedItem.Name)
}

func TestSelectCartItem_TiesBreakByRank(t *testing.T) {
	candidates := []candidate{
		parseCandidate(hit(0, "Name: First, Price: 10, Delivery estimate: 3 days, Review rating: 4.0"), "q", 0, 1),
		parseCandidate(hit(1, "Name: Second, Price: 10, Delivery estimate: 3 days, Review rating: 4.0"), "q", 0, 1),
	}

	item := selectCartItem(candidates)
	require.Equal(t, "First", item.CheapestItem.Name)
	assert.Equal(t, "First", item.FastestDelivery.Name)
	assert.Equal(t, "First", item.BestRatingItem.Name)
	assert.Equal(t, "First", item.RecommendedItem.Name)
}
