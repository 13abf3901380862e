package shoppingService

import (
	"Eventra/internal/api/shopping"
	"Eventra/internal/entity"
	contextPkg "Eventra/pkg/context"
	"Eventra/pkg/sessionstore"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const forcedRejectionReason = "Our sponsorship budget for this period is already committed to other events."

var addressPattern = regexp.MustCompile(`(?i)address:\s*([^.,;\n]+)`)

var rejectionReasons = []string{
	"We are not sponsoring %s events in %s this quarter.",
	"Our %s campaign allocation is exhausted; events in %s are on a waitlist.",
	"The expected footfall for a %s event in %s is below our sponsorship threshold.",
	"We already sponsor a competing %s event near %s.",
	"Brand guidelines currently exclude %s events; %s is outside our focus region.",
}

var eventTypeKeywords = []string{
	"birthday", "wedding", "conference", "corporate", "festival",
	"graduation", "anniversary", "party",
}

// negotiate resolves one retailer's sponsorship decision. The
// generator is seeded from the inputs, so identical calls always
// return identical offers.
func (s *shoppingService) negotiate(retailer string, items []entity.SponsoredItem, eventContext string) entity.RetailerOffer {
	if len(items) == 0 {
		return entity.RetailerOffer{
			Retailer: retailer,
			Status:   entity.OfferRejected,
			Reason:   "There are no items in this batch to sponsor.",
		}
	}

	rng := rand.New(rand.NewSource(negotiationSeed(retailer, items, eventContext)))

	if rng.Float64() < s.config.RejectProbability {
		reason := rejectionReasons[rng.Intn(len(rejectionReasons))]
		return entity.RetailerOffer{
			Retailer: retailer,
			Status:   entity.OfferRejected,
			Reason:   fmt.Sprintf(reason, inferEventType(eventContext), inferLocation(eventContext)),
		}
	}

	discountCount := int(float64(len(items)) * s.config.DiscountItemRatio)
	if discountCount < 1 {
		discountCount = 1
	}
	if discountCount > len(items) {
		discountCount = len(items)
	}

	picked := rng.Perm(len(items))[:discountCount]

	totalPercent := 0
	discounted := make([]entity.DiscountedItem, 0, discountCount)
	for _, index := range picked {
		percent := 5 * (1 + rng.Intn(10))
		totalPercent += percent
		discounted = append(discounted, entity.DiscountedItem{
			Item:    items[index].Item,
			ID:      items[index].ID,
			Percent: percent,
		})
	}

	// Overall discount is the mean across all items, so retailers
	// with many undiscounted items quote a diluted figure.
	overall := totalPercent / len(items)

	return entity.RetailerOffer{
		Retailer:        retailer,
		Status:          entity.OfferApproved,
		DiscountPercent: &overall,
		DiscountedItems: discounted,
	}
}

func negotiationSeed(retailer string, items []entity.SponsoredItem, eventContext string) int64 {
	itemsJSON, _ := json.Marshal(items)

	h := fnv.New64a()
	h.Write([]byte(retailer))
	h.Write([]byte("|"))
	h.Write(itemsJSON)
	h.Write([]byte("|"))
	h.Write([]byte(eventContext))
	return int64(h.Sum64())
}

func inferEventType(eventContext string) string {
	lowered := strings.ToLower(eventContext)
	for _, keyword := range eventTypeKeywords {
		if strings.Contains(lowered, keyword) {
			return keyword
		}
	}
	return "private"
}

func inferLocation(eventContext string) string {
	match := addressPattern.FindStringSubmatch(eventContext)
	if match == nil {
		return "your area"
	}
	return strings.TrimSpace(match[1])
}

// NegotiateSponsorship resolves every retailer concurrently, then
// applies the not-all-approved rule. Output order follows the batch
// order, not completion order.
func (s *shoppingService) NegotiateSponsorship(ctx context.Context, batches []entity.RetailerBatch, eventContext string) []entity.RetailerOffer {
	requestID := contextPkg.GetRequestID(ctx)

	offers := make([]entity.RetailerOffer, len(batches))
	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch entity.RetailerBatch) {
			defer wg.Done()
			offers[i] = s.negotiateSafely(requestID, batch, eventContext)
		}(i, batch)
	}
	wg.Wait()

	return enforceRejectionInvariant(offers)
}

// negotiateSafely degrades a failed negotiation to a rejected offer
// instead of aborting the batch.
func (s *shoppingService) negotiateSafely(requestID string, batch entity.RetailerBatch, eventContext string) (offer entity.RetailerOffer) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"retailer":   batch.Retailer,
				"panic":      fmt.Sprint(r),
			}).Error("Negotiation call failed")
			offer = entity.RetailerOffer{
				Retailer: batch.Retailer,
				Status:   entity.OfferRejected,
				Reason:   "The negotiation call failed; treating the offer as declined.",
			}
		}
	}()

	return s.negotiate(batch.Retailer, batch.Items, eventContext)
}

// enforceRejectionInvariant guarantees at least one friction point: a
// non-empty batch where every retailer approved gets its first offer
// forced to rejected.
func enforceRejectionInvariant(offers []entity.RetailerOffer) []entity.RetailerOffer {
	if len(offers) == 0 {
		return offers
	}

	for _, offer := range offers {
		if offer.Status != entity.OfferApproved {
			return offers
		}
	}

	offers[0].Status = entity.OfferRejected
	offers[0].Reason = forcedRejectionReason
	offers[0].DiscountPercent = nil
	offers[0].DiscountedItems = nil
	return offers
}

func (s *shoppingService) StreamOffers(ctx context.Context, sessionID string) (<-chan shopping.OfferEvent, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return nil, shopping.ErrCartNotFound
		}
		return nil, err
	}

	if session.VoiceState == nil || session.VoiceState.Cart == nil {
		return nil, shopping.ErrSponsorshipNotReady
	}

	batches := s.RetailerBatches(session.VoiceState.Cart)
	eventContext := sponsorshipContext(session)
	offers := s.NegotiateSponsorship(ctx, batches, eventContext)

	events := make(chan shopping.OfferEvent)
	go func() {
		defer close(events)
		for i := range offers {
			start := shopping.OfferEvent{
				Type:     shopping.OfferEventStart,
				Retailer: offers[i].Retailer,
			}
			if !s.emit(ctx, events, start) {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(s.streamDelay()):
			}

			end := shopping.OfferEvent{
				Type:     shopping.OfferEventEnd,
				Retailer: offers[i].Retailer,
				Offer:    &offers[i],
			}
			if !s.emit(ctx, events, end) {
				return
			}
		}
	}()

	return events, nil
}

func (s *shoppingService) emit(ctx context.Context, events chan<- shopping.OfferEvent, event shopping.OfferEvent) bool {
	select {
	case <-ctx.Done():
		return false
	case events <- event:
		return true
	}
}

func (s *shoppingService) streamDelay() time.Duration {
	spread := s.config.MaxStreamDelayMs - s.config.MinStreamDelayMs
	delayMs := s.config.MinStreamDelayMs
	if spread > 0 {
		delayMs += rand.Intn(spread + 1)
	}
	return time.Duration(delayMs) * time.Millisecond
}

// sponsorshipContext flattens the session into the negotiation
// context. Form labels are sorted so the same session always produces
// the same context, keeping the seeded negotiation repeatable.
func sponsorshipContext(session *entity.Session) string {
	var sb strings.Builder
	if session.VoiceState != nil && session.VoiceState.EventDescription != "" {
		sb.WriteString(session.VoiceState.EventDescription)
		sb.WriteString(". ")
	}

	labels := make([]string, 0, len(session.FormData))
	for label := range session.FormData {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		value := session.FormData[label]
		if value == "" {
			continue
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString(". ")
	}
	return sb.String()
}
