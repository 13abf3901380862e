package shoppingHandler

import (
	"Eventra/internal/api/shopping"
	contextPkg "Eventra/pkg/context"
	"Eventra/pkg/handlerUtil"
	"Eventra/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

func (h *ShoppingHandler) BuildCart(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 60*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing build cart request")

	var req shopping.BuildCartRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	cart, err := h.shoppingService.BuildCartForSession(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "build_cart")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, cart)
	}
}

// StreamSponsorship drip-feeds negotiation start/end events over the
// socket until the batch is exhausted or the client goes away.
func (h *ShoppingHandler) StreamSponsorship(c *websocket.Conn) {
	sessionID := c.Params("session_id")

	h.log.WithFields(log.Fields{
		"session_id": sessionID,
	}).Info("Sponsorship stream client connected")
	defer h.log.WithFields(log.Fields{
		"session_id": sessionID,
	}).Info("Sponsorship stream client disconnected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := h.shoppingService.StreamOffers(ctx, sessionID)
	if err != nil {
		if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
			h.log.Errorf("Error sending sponsorship error response: %v", writeErr)
		}
		return
	}

	for event := range events {
		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			return
		}
		if err := c.WriteJSON(event); err != nil {
			h.log.Errorf("Error writing sponsorship event: %v", err)
			return
		}
	}
}
