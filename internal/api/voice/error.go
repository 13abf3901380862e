package voice

import "Eventra/pkg/response"

var (
	ErrInvalidAudioFile    = response.NewError(400, "invalid audio file")
	ErrAudioFileTooLarge   = response.NewError(400, "audio file too large")
	ErrEmptyInput          = response.NewError(400, "empty voice input")
	ErrTranscriptionFailed = response.NewError(500, "failed to transcribe audio")
	ErrAudioNotFound       = response.NewError(404, "audio not found")
)
