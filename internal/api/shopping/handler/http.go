package shoppingHandler

import (
	shoppingService "Eventra/internal/api/shopping/service"
	"Eventra/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type ShoppingHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	shoppingService shoppingService.IShoppingService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ss shoppingService.IShoppingService,
) *ShoppingHandler {
	return &ShoppingHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		shoppingService: ss,
	}
}

func (h *ShoppingHandler) Start(srv fiber.Router) {
	shopping := srv.Group("/shopping")

	shopping.Post("/cart", h.BuildCart)

	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
	shopping.Use("/sponsorship/:session_id", wsMiddleware)
	shopping.Get("/sponsorship/:session_id", websocket.New(h.StreamSponsorship))
}
