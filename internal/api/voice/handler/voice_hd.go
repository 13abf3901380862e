package voiceHandler

import (
	"Eventra/internal/api/voice"
	contextPkg "Eventra/pkg/context"
	"Eventra/pkg/handlerUtil"
	"Eventra/pkg/log"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const maxAudioBytes = 10 * 1024 * 1024

func (h *VoiceHandler) StartVoice(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing start voice request")

	var req voice.StartVoiceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	// A caller without a session yet gets a fresh one.
	if req.SessionID == "" {
		sessionID, err := h.utils.NewULIDFromTimestamp(time.Now())
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "start_voice")
		}
		req.SessionID = sessionID
	}

	turn, err := h.voiceService.StartVoice(c, req.SessionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "start_voice")
	}
	turn.SessionID = req.SessionID

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, turn)
	}
}

func (h *VoiceHandler) ProcessVoiceInput(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 60*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing voice input request")

	sessionID := ctx.FormValue("session_id")
	if sessionID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("session_id is required"), ctx.Path())
	}

	transcript, err := h.resolveTranscript(c, ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "resolve_transcript")
	}
	if transcript == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("an audio file or a transcript is required"), ctx.Path())
	}

	turn, err := h.voiceService.ProcessVoiceInput(c, sessionID, transcript)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_voice_input")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, turn)
	}
}

// resolveTranscript prefers uploaded audio; the transcript form value
// is a fallback so a transcription outage doesn't strand the turn.
func (h *VoiceHandler) resolveTranscript(c context.Context, ctx *fiber.Ctx) (string, error) {
	fallback := ctx.FormValue("transcript")

	audioFile, err := ctx.FormFile("audio")
	if err != nil {
		return fallback, nil
	}

	if audioFile.Size > maxAudioBytes {
		return "", voice.ErrAudioFileTooLarge
	}

	file, err := audioFile.Open()
	if err != nil {
		return "", voice.ErrInvalidAudioFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", voice.ErrInvalidAudioFile
	}

	transcript, err := h.voiceService.Transcribe(c, data, audioFile.Filename)
	if err != nil {
		if fallback != "" {
			h.log.WithFields(log.Fields{
				"request_id": h.middleware.GetRequestID(ctx),
				"error":      err.Error(),
			}).Warn("Transcription failed, using transcript fallback")
			return fallback, nil
		}
		return "", err
	}

	return transcript, nil
}

func (h *VoiceHandler) ServeAudio(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	audioID := ctx.Params("audio_id")

	data, err := h.voiceService.AudioByID(audioID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "serve_audio")
	}

	ctx.Set(fiber.HeaderContentType, "audio/mpeg")
	return ctx.Send(data)
}
