package voiceService

import (
	"Eventra/internal/api/voice"
	"Eventra/internal/entity"
	contextPkg "Eventra/pkg/context"
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// maxInternalSteps bounds the internal-continue loop. The longest
// legitimate chain is one entry action per selected category plus the
// completion check, so anything past this is a transition bug, not a
// long conversation.
const maxInternalSteps = 12

func (s *voiceService) StartVoice(ctx context.Context, sessionID string) (*voice.VoiceTurn, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.VoiceState == nil {
		session.VoiceState = entity.NewVoiceState()
	}

	return s.runTurn(ctx, session, "")
}

func (s *voiceService) ProcessVoiceInput(ctx context.Context, sessionID, transcript string) (*voice.VoiceTurn, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, voice.ErrEmptyInput
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.VoiceState == nil {
		session.VoiceState = entity.NewVoiceState()
	}

	turn, err := s.runTurn(ctx, session, transcript)
	if err != nil {
		return nil, err
	}

	turn.TranscribedText = transcript
	return turn, nil
}

// runTurn drives the phase machine until a phase produces a spoken
// turn, then persists the session. A failing step leaves the stored
// session at its last successful state and yields a spoken error turn
// instead.
func (s *voiceService) runTurn(ctx context.Context, session *entity.Session, input string) (*voice.VoiceTurn, error) {
	requestID := contextPkg.GetRequestID(ctx)

	turn, err := s.drive(ctx, session, input)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"phase":      string(session.VoiceState.Phase),
			"error":      err.Error(),
		}).Error("Voice turn failed")
		return s.errorTurn(err), nil
	}

	if input != "" {
		session.AddMessage("user", input)
	}
	session.AddMessage("assistant", turn.Text)

	if err := s.store.Save(ctx, session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Failed to save session after voice turn")
		return s.errorTurn(err), nil
	}

	return turn, nil
}

// drive advances the machine one transition at a time. A handler that
// returns no turn asks to be re-dispatched with empty input; each
// step is exactly one transition, so the loop stays bounded.
func (s *voiceService) drive(ctx context.Context, session *entity.Session, input string) (*voice.VoiceTurn, error) {
	for step := 0; step < maxInternalSteps; step++ {
		turn, err := s.dispatch(ctx, session, input)
		if err != nil {
			return nil, err
		}
		if turn != nil {
			return turn, nil
		}
		input = ""
	}

	return nil, fmt.Errorf("phase machine exceeded %d internal steps in phase %q", maxInternalSteps, session.VoiceState.Phase)
}

func (s *voiceService) dispatch(ctx context.Context, session *entity.Session, input string) (*voice.VoiceTurn, error) {
	state := session.VoiceState

	switch state.Phase {
	case entity.PhaseGreeting:
		return s.handleGreeting(state)
	case entity.PhaseEventType:
		return s.handleEventType(ctx, session, input)
	case entity.PhaseCategorySelection:
		return s.handleCategorySelection(session, input)
	case entity.PhaseCategoryConfirmation:
		return s.handleCategoryConfirmation(session, input)
	case entity.PhaseSubcategorySelection:
		return s.handleSubcategorySelection(session, input)
	case entity.PhaseCompletionCheck:
		return s.handleCompletionCheck(session, input)
	case entity.PhaseFormCollection:
		return s.handleFormCollection(ctx, session, input)
	case entity.PhaseListReadoutPrompt:
		return s.handleListReadoutPrompt(state, input)
	case entity.PhaseListReadout:
		return s.handleListReadout(state)
	case entity.PhasePurchaseConfirmation:
		return s.handlePurchaseConfirmation(state, input)
	case entity.PhaseDone:
		return s.turn(state, "This conversation is finished. Start a new session to plan another event.", false, nil), nil
	default:
		return nil, fmt.Errorf("unknown voice phase %q", state.Phase)
	}
}

// turn assembles a spoken turn: the text is synthesized through the
// cached speaker, and a synthesis failure degrades to a text-only
// turn rather than failing the step.
func (s *voiceService) turn(state *entity.VoiceState, text string, waitForInput bool, data map[string]interface{}) *voice.VoiceTurn {
	audioID, err := s.speaker.Synthesize(text)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Speech synthesis failed, returning text-only turn")
		audioID = ""
	}

	return &voice.VoiceTurn{
		Text:         text,
		AudioID:      audioID,
		Phase:        string(state.Phase),
		Data:         data,
		WaitForInput: waitForInput,
	}
}

func (s *voiceService) errorTurn(cause error) *voice.VoiceTurn {
	state := &entity.VoiceState{Phase: entity.PhaseError}
	text := fmt.Sprintf("I'm sorry, something went wrong: %s. Let's try that again.", cause.Error())
	return s.turn(state, text, true, nil)
}

func (s *voiceService) AudioByID(audioID string) ([]byte, error) {
	data, ok := s.speaker.Lookup(audioID)
	if !ok {
		return nil, voice.ErrAudioNotFound
	}
	return data, nil
}

func (s *voiceService) Transcribe(ctx context.Context, data []byte, filename string) (string, error) {
	transcript, err := s.transcriber.TranscribeBytes(ctx, data, filename)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Transcription failed")
		return "", voice.ErrTranscriptionFailed
	}
	return transcript, nil
}
