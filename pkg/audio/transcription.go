package audio

import (
	"bytes"
	"context"

	openai "github.com/sashabaranov/go-openai"
)

type ITranscriber interface {
	TranscribeBytes(ctx context.Context, data []byte, filename string) (string, error)
}

type TranscriptionService struct {
	client *openai.Client
}

func NewTranscriptionService(apiKey string) *TranscriptionService {
	client := openai.NewClient(apiKey)
	return &TranscriptionService{client: client}
}

// TranscribeBytes sends an in-memory audio payload to Whisper. Voice
// input arrives as a multipart upload, so there is no file on disk to
// point at; the filename only tells the API the container format.
func (t *TranscriptionService) TranscribeBytes(ctx context.Context, data []byte, filename string) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(data),
		FilePath: filename,
		Language: "en",
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
