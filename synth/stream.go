package synth

import (
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when no model backend is available
var ErrNotConfigured = errors.New("synthesis backend not configured")

// Stream is a non-rewindable, finite sequence of text fragments.
// Recv returns fragments strictly in arrival order; io.EOF signals clean
// completion, any other error is terminal. Fragments already consumed are
// never rolled back on failure.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// chatStream adapts the backend's streaming completion to the Stream contract
type chatStream struct {
	inner *openai.ChatCompletionStream
}

func (s *chatStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("failed to communicate with the AI model: %w", err)
		}
		if len(resp.Choices) == 0 {
			// keep-alive chunk with no delta, wait for the next one
			continue
		}
		return resp.Choices[0].Delta.Content, nil
	}
}

func (s *chatStream) Close() error {
	return s.inner.Close()
}
