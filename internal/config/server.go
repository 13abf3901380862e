package config

import (
	"Eventra/database/postgres"
	plannerHandler "Eventra/internal/api/planner/handler"
	plannerService "Eventra/internal/api/planner/service"
	shoppingHandler "Eventra/internal/api/shopping/handler"
	shoppingRepository "Eventra/internal/api/shopping/repository"
	shoppingService "Eventra/internal/api/shopping/service"
	voiceHandler "Eventra/internal/api/voice/handler"
	voiceService "Eventra/internal/api/voice/service"
	"Eventra/internal/middleware"
	"Eventra/pkg/audio"
	"Eventra/pkg/fuzzy"
	"Eventra/pkg/gemini"
	chatGPT "Eventra/pkg/openai"
	"Eventra/pkg/sessionstore"
	"Eventra/pkg/utils"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	db            *sqlx.DB
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	utils         utils.IUtils
	handlers      []handler
	sessionStore  sessionstore.Store
	speaker       *audio.Speaker
	transcriber   audio.ITranscriber
	geminiClient  gemini.IGemini
	chatGPTClient chatGPT.IChatGPT
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

// WithSessionStore picks Redis when REDIS_ADDRESS is configured and
// falls back to the in-process store otherwise.
func WithSessionStore() ServerOption {
	return func(s *Server) error {
		if os.Getenv("REDIS_ADDRESS") != "" {
			s.sessionStore = sessionstore.NewRedis()
			return nil
		}
		if s.log != nil {
			s.log.Warn("REDIS_ADDRESS not set, using in-memory session store")
		}
		s.sessionStore = sessionstore.NewMemory()
		return nil
	}
}

func WithSpeaker() ServerOption {
	return func(s *Server) error {
		tts := audio.NewTTSService(
			os.Getenv("ELEVEN_LABS_API_KEY"),
			os.Getenv("ELEVEN_LABS_VOICE_ID"),
		)
		s.speaker = audio.NewSpeaker(tts, audio.DefaultCacheCapacity)
		return nil
	}
}

func WithTranscriber() ServerOption {
	return func(s *Server) error {
		s.transcriber = audio.NewTranscriptionService(os.Getenv("OPENAI_API_KEY"))
		return nil
	}
}

func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
		return nil
	}
}

func WithChatGPTClient() ServerOption {
	return func(s *Server) error {
		s.chatGPTClient = chatGPT.NewChatGPT()
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Planner Domain
	plannerServices := plannerService.NewPlannerService(s.log, s.sessionStore, s.geminiClient, s.chatGPTClient)
	plannerHandlers := plannerHandler.New(s.log, s.validator, s.middleware, plannerServices)

	// Shopping Domain
	shoppingRepo := shoppingRepository.New(s.db, s.log)
	shoppingServices := shoppingService.NewShoppingService(s.log, shoppingRepo, plannerServices, s.sessionStore, shoppingService.DefaultShoppingConfig())
	shoppingHandlers := shoppingHandler.New(s.log, s.validator, s.middleware, shoppingServices)

	// Voice Domain
	voiceServices := voiceService.NewVoiceService(s.log, s.sessionStore, s.speaker, s.transcriber, plannerServices, shoppingServices, fuzzy.DefaultConfig())
	voiceHandlers := voiceHandler.New(s.log, s.validator, s.middleware, s.utils, voiceServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, plannerHandlers, shoppingHandlers, voiceHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
