package shoppingService

import (
	shoppingRepository "Eventra/internal/api/shopping/repository"
	"Eventra/internal/entity"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// candidate is one parsed catalog hit for a single shopping-list
// query. Rank preserves the original result ordering; every selection
// tie-break ends on it so identical inputs always pick identically.
type candidate struct {
	detail       entity.CartItemDetail
	deliveryDays int
	rank         int
}

var decimalPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
var integerPattern = regexp.MustCompile(`\d+`)

// parseCandidate turns a flat "Label: value, ..." content row into a
// candidate. Field keys are matched case-insensitively with the
// fallback chains of the catalog's known labelings.
func parseCandidate(hit shoppingRepository.SearchHit, query string, fallbackPrice float64, amount int) candidate {
	fields := parseFields(hit.Item.Content)

	name := firstField(fields, "name", "item", "product", "title")
	if name == "" {
		name = query
	}

	price := parsePrice(firstField(fields, "price", "unit price", "cost"))
	if price == 0 {
		price = fallbackPrice
	}

	retailer := firstField(fields, "retailer", "store", "vendor")
	if retailer == "" {
		retailer = "Unknown retailer"
	}

	deliveryDays := parseInt(firstField(fields, "delivery estimate", "delivery", "delivery days"), 3)
	rating := parseFloat(firstField(fields, "review rating", "rating", "review score"), 0)
	reviews := parseInt(firstField(fields, "reviews count", "review count", "reviews"), 0)

	detail := entity.CartItemDetail{
		ID:             itemID(hit.Item),
		Name:           name,
		Price:          price,
		Amount:         amount,
		Retailer:       retailer,
		ReviewRating:   rating,
		ReviewsCount:   reviews,
		DeliveryTimeMs: int64(deliveryDays) * 24 * 60 * 60 * 1000,
	}

	if image := firstField(fields, "image", "image id", "image url"); image != "" {
		detail.ImageURL = imageURL(image)
	}

	return candidate{
		detail:       detail,
		deliveryDays: deliveryDays,
		rank:         hit.Rank,
	}
}

func parseFields(content string) map[string]string {
	fields := map[string]string{}
	for _, part := range strings.Split(content, ",") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		value := strings.TrimSpace(kv[1])
		if key == "" || value == "" {
			continue
		}
		if _, exists := fields[key]; !exists {
			fields[key] = value
		}
	}
	return fields
}

func firstField(fields map[string]string, keys ...string) string {
	for _, key := range keys {
		if value, ok := fields[key]; ok {
			return value
		}
	}
	return ""
}

func parsePrice(raw string) float64 {
	match := decimalPattern.FindString(raw)
	if match == "" {
		return 0
	}
	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return price
}

func parseFloat(raw string, fallback float64) float64 {
	match := decimalPattern.FindString(raw)
	if match == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return fallback
	}
	return value
}

func parseInt(raw string, fallback int) int {
	match := integerPattern.FindString(raw)
	if match == "" {
		return fallback
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return fallback
	}
	return value
}

func itemID(item entity.CatalogItem) string {
	if item.Source == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", item.Source, item.RowNum)
}

func imageURL(imageID string) string {
	base := os.Getenv("CATALOG_IMAGE_BASE_URL")
	if base == "" {
		return imageID
	}
	return strings.TrimRight(base, "/") + "/" + imageID
}

// selectCartItem applies the deterministic selection rule over a
// non-empty candidate pool: cheapest, fastest and best-rated picks
// with price/rank tie-breaks, then a majority vote for recommended.
func selectCartItem(candidates []candidate) entity.CartItem {
	cheapest := minBy(candidates, func(a, b candidate) bool {
		if a.detail.Price != b.detail.Price {
			return a.detail.Price < b.detail.Price
		}
		return a.rank < b.rank
	})

	fastest := minBy(candidates, func(a, b candidate) bool {
		if a.deliveryDays != b.deliveryDays {
			return a.deliveryDays < b.deliveryDays
		}
		if a.detail.Price != b.detail.Price {
			return a.detail.Price < b.detail.Price
		}
		return a.rank < b.rank
	})

	bestRating := minBy(candidates, func(a, b candidate) bool {
		if a.detail.ReviewRating != b.detail.ReviewRating {
			return a.detail.ReviewRating > b.detail.ReviewRating
		}
		if a.detail.Price != b.detail.Price {
			return a.detail.Price < b.detail.Price
		}
		return a.rank < b.rank
	})

	recommended := recommendFrom([]candidate{cheapest, fastest, bestRating})

	return entity.CartItem{
		RecommendedItem: recommended.detail,
		CheapestItem:    cheapest.detail,
		BestRatingItem:  bestRating.detail,
		FastestDelivery: fastest.detail,
	}
}

func minBy(candidates []candidate, less func(a, b candidate) bool) candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if less(c, best) {
			best = c
		}
	}
	return best
}

// recommendFrom picks the candidate chosen most often among the three
// picks. Ties break by price then rank, so three distinct picks fall
// back to the cheapest.
func recommendFrom(picks []candidate) candidate {
	counts := map[int]int{}
	byRank := map[int]candidate{}
	for _, pick := range picks {
		counts[pick.rank]++
		byRank[pick.rank] = pick
	}

	voted := make([]candidate, 0, len(byRank))
	for rank := range byRank {
		voted = append(voted, byRank[rank])
	}

	sort.Slice(voted, func(i, j int) bool {
		if counts[voted[i].rank] != counts[voted[j].rank] {
			return counts[voted[i].rank] > counts[voted[j].rank]
		}
		if voted[i].detail.Price != voted[j].detail.Price {
			return voted[i].detail.Price < voted[j].detail.Price
		}
		return voted[i].rank < voted[j].rank
	})

	return voted[0]
}
