package audio

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTTS struct {
	calls int
}

func (t *countingTTS) GenerateAudio(text string) ([]byte, error) {
	t.calls++
	return []byte("audio:" + text), nil
}

func TestSpeaker_SameTextSynthesizedOnce(t *testing.T) {
	tts := &countingTTS{}
	speaker := NewSpeaker(tts, 8)

	first, err := speaker.Synthesize("hello there")
	require.NoError(t, err)

	second, err := speaker.Synthesize("hello there")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, tts.calls)

	data, ok := speaker.Lookup(first)
	require.True(t, ok)
	assert.Equal(t, []byte("audio:hello there"), data)
}

func TestSpeaker_EvictsLeastRecentlyUsed(t *testing.T) {
	tts := &countingTTS{}
	speaker := NewSpeaker(tts, 2)

	idA, err := speaker.Synthesize("a")
	require.NoError(t, err)
	idB, err := speaker.Synthesize("b")
	require.NoError(t, err)

	// Touch "a" so "b" becomes the eviction victim.
	_, ok := speaker.Lookup(idA)
	require.True(t, ok)

	_, err = speaker.Synthesize("c")
	require.NoError(t, err)

	_, ok = speaker.Lookup(idB)
	assert.False(t, ok)

	_, ok = speaker.Lookup(idA)
	assert.True(t, ok)
}

func TestSpeaker_LookupUnknownID(t *testing.T) {
	speaker := NewSpeaker(&countingTTS{}, 4)

	_, ok := speaker.Lookup("no-such-id")
	assert.False(t, ok)
}

func TestSpeaker_DistinctTextsDistinctIDs(t *testing.T) {
	tts := &countingTTS{}
	speaker := NewSpeaker(tts, 16)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		id, err := speaker.Synthesize(fmt.Sprintf("prompt %d", i))
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Equal(t, 5, tts.calls)
}
