package handlerUtil

import (
	"Eventra/internal/api/planner"
	"Eventra/internal/api/shopping"
	"Eventra/internal/api/voice"
	"Eventra/pkg/log"
	"Eventra/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	if errors.Is(err, planner.ErrSessionNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Session not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Session not found",
			"code":    "SESSION_NOT_FOUND",
		})
	}

	// Voice domain errors
	if errors.Is(err, voice.ErrInvalidAudioFile) || errors.Is(err, voice.ErrAudioFileTooLarge) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid audio upload")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid audio file",
			"code":    "INVALID_AUDIO_FILE",
		})
	}

	if errors.Is(err, voice.ErrTranscriptionFailed) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Transcription failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to transcribe audio",
			"code":    "TRANSCRIPTION_FAILED",
		})
	}

	if errors.Is(err, voice.ErrAudioNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Audio not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Audio not found",
			"code":    "AUDIO_NOT_FOUND",
		})
	}

	// Planner domain errors
	if errors.Is(err, planner.ErrEmptyEventDescription) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Empty event description")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Event description is required",
			"code":    "EMPTY_EVENT_DESCRIPTION",
		})
	}

	if errors.Is(err, planner.ErrTreeGenerationFailed) || errors.Is(err, planner.ErrListGenerationFailed) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Generation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to generate planning data",
			"code":    "GENERATION_FAILED",
		})
	}

	if errors.Is(err, planner.ErrIncompleteForm) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Incomplete planning form")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Planning form is incomplete",
			"code":    "INCOMPLETE_FORM",
		})
	}

	// Shopping domain errors
	if errors.Is(err, shopping.ErrEmptyShoppingList) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Empty shopping list")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Shopping list is empty",
			"code":    "EMPTY_SHOPPING_LIST",
		})
	}

	if errors.Is(err, shopping.ErrCatalogUnavailable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Catalog unavailable")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Product catalog unavailable",
			"code":    "CATALOG_UNAVAILABLE",
		})
	}

	if errors.Is(err, shopping.ErrCartNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Cart not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No cart for session",
			"code":    "CART_NOT_FOUND",
		})
	}

	traceID := log.ErrorWithTraceID(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":    "An unexpected error occurred",
		"trace_id": traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
