package voiceService

import (
	plannerService "Eventra/internal/api/planner/service"
	shoppingService "Eventra/internal/api/shopping/service"
	"Eventra/internal/api/voice"
	"Eventra/pkg/audio"
	"Eventra/pkg/fuzzy"
	"Eventra/pkg/sessionstore"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type IVoiceService interface {
	// StartVoice opens (or resumes) the voice flow for a session and
	// returns the greeting turn.
	StartVoice(ctx context.Context, sessionID string) (*voice.VoiceTurn, error)

	// ProcessVoiceInput advances the dialogue by one user input. The
	// phase machine may chain several internal transitions before it
	// produces a spoken turn.
	ProcessVoiceInput(ctx context.Context, sessionID, transcript string) (*voice.VoiceTurn, error)

	Transcribe(ctx context.Context, data []byte, filename string) (string, error)
	AudioByID(audioID string) ([]byte, error)
}

type voiceService struct {
	log         *logrus.Logger
	store       sessionstore.Store
	speaker     *audio.Speaker
	transcriber audio.ITranscriber
	planner     plannerService.IPlannerService
	shopping    shoppingService.IShoppingService
	fuzzyCfg    fuzzy.Config

	// Concurrent turns for one session wait on its lock rather than
	// being rejected; the store itself does not serialize.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewVoiceService(
	log *logrus.Logger,
	store sessionstore.Store,
	speaker *audio.Speaker,
	transcriber audio.ITranscriber,
	plannerSvc plannerService.IPlannerService,
	shoppingSvc shoppingService.IShoppingService,
	fuzzyCfg fuzzy.Config,
) IVoiceService {
	return &voiceService{
		log:         log,
		store:       store,
		speaker:     speaker,
		transcriber: transcriber,
		planner:     plannerSvc,
		shopping:    shoppingSvc,
		fuzzyCfg:    fuzzyCfg,
		locks:       map[string]*sync.Mutex{},
	}
}

func (s *voiceService) sessionLock(sessionID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}
