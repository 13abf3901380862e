package voice

// StartVoiceRequest opens the voice flow. The session id is optional;
// the handler mints one when it is absent.
type StartVoiceRequest struct {
	SessionID string `json:"session_id"`
}

// VoiceTurn is one spoken turn of the dialogue: the text that was
// synthesized, the handle to fetch its audio, the phase the machine
// landed in and any phase-specific payload for the client UI.
type VoiceTurn struct {
	SessionID       string                 `json:"session_id,omitempty"`
	Text            string                 `json:"text"`
	AudioID         string                 `json:"audio_id,omitempty"`
	Phase           string                 `json:"phase"`
	Data            map[string]interface{} `json:"data,omitempty"`
	TranscribedText string                 `json:"transcribed_text,omitempty"`
	WaitForInput    bool                   `json:"wait_for_input"`
}
