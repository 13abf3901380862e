package audio

import (
	"container/list"
	"crypto/md5"
	"encoding/hex"
	"sync"
)

// Speaker fronts a TTS backend with a content-addressed cache: the
// same exact text is never synthesized twice while cached, and the
// returned audio id is a pure lookup key. The cache is capacity
// bounded; the least recently used entry is evicted first.
type Speaker struct {
	tts      ITTS
	capacity int

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
}

type cacheEntry struct {
	id    string
	audio []byte
}

const DefaultCacheCapacity = 512

func NewSpeaker(tts ITTS, capacity int) *Speaker {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Speaker{
		tts:      tts,
		capacity: capacity,
		entries:  map[string]*list.Element{},
		order:    list.New(),
	}
}

// Synthesize returns the audio id for the given text, generating and
// caching the audio on first use.
func (s *Speaker) Synthesize(text string) (string, error) {
	id := audioID(text)

	s.mu.Lock()
	if elem, ok := s.entries[id]; ok {
		s.order.MoveToFront(elem)
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	audio, err := s.tts.GenerateAudio(text)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[id]; ok {
		s.order.MoveToFront(elem)
		return id, nil
	}

	s.entries[id] = s.order.PushFront(&cacheEntry{id: id, audio: audio})
	for s.order.Len() > s.capacity {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.entries, oldest.Value.(*cacheEntry).id)
	}

	return id, nil
}

// Lookup retrieves cached audio by id.
func (s *Speaker) Lookup(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	s.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).audio, true
}

func audioID(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
