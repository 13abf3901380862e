package voiceHandler

import (
	voiceService "Eventra/internal/api/voice/service"
	"Eventra/internal/middleware"
	"Eventra/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type VoiceHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	utils        utils.IUtils
	voiceService voiceService.IVoiceService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	utilsInstance utils.IUtils,
	vs voiceService.IVoiceService,
) *VoiceHandler {
	return &VoiceHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		utils:        utilsInstance,
		voiceService: vs,
	}
}

func (h *VoiceHandler) Start(srv fiber.Router) {
	voice := srv.Group("/voice")

	voice.Use(h.middleware.NewRateLimiter)

	voice.Post("/start", h.StartVoice)
	voice.Post("/input", h.ProcessVoiceInput)
	voice.Get("/audio/:audio_id", h.ServeAudio)
}
