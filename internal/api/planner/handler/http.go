package plannerHandler

import (
	plannerService "Eventra/internal/api/planner/service"
	"Eventra/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PlannerHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	plannerService plannerService.IPlannerService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ps plannerService.IPlannerService,
) *PlannerHandler {
	return &PlannerHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		plannerService: ps,
	}
}

func (h *PlannerHandler) Start(srv fiber.Router) {
	planner := srv.Group("/planner")

	planner.Post("/trees", h.GenerateTrees)
	planner.Post("/form", h.SubmitForm)
	planner.Get("/session/:id", h.GetSession)
}
