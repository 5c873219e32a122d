package synth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/zecrev/codez/log"
)

// Conversation holds the message history of one chat/theme editing session.
// It is the opaque continuation handle: every Continue call appends the user
// instruction, and the caller records the finalized reply with AddAssistant.
type Conversation struct {
	messages []openai.ChatCompletionMessage
}

// NewConversation starts a conversation seeded with the site system instruction
func NewConversation() *Conversation {
	return &Conversation{
		messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
		},
	}
}

// AddUser appends a user turn without calling the model.
// Used to seed the conversation with the original generation prompt.
func (c *Conversation) AddUser(text string) {
	c.messages = append(c.messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: text,
	})
}

// AddAssistant records the model's finalized reply
func (c *Conversation) AddAssistant(text string) {
	c.messages = append(c.messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant, Content: text,
	})
}

// DropLast removes the most recent turn. Callers use it to roll back the
// user instruction appended by a Continue call whose stream failed.
func (c *Conversation) DropLast() {
	if len(c.messages) > 1 {
		c.messages = c.messages[:len(c.messages)-1]
	}
}

// Len returns the number of turns, excluding the system instruction
func (c *Conversation) Len() int {
	return len(c.messages) - 1
}

func (c *Client) stream(ctx context.Context, req openai.ChatCompletionRequest) (Stream, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}

	log.Debug().
		Str("model", req.Model).
		Int("messageCount", len(req.Messages)).
		Msg("synthesis stream request")

	inner, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("model", req.Model).Msg("synthesis stream failed to open")
		return nil, fmt.Errorf("failed to communicate with the AI model: %w", err)
	}

	return &chatStream{inner: inner}, nil
}

// GenerateSite streams a fresh single-file HTML document for the prompt.
// Clone requests must already be rewritten via CloneInstruction.
func (c *Client) GenerateSite(ctx context.Context, prompt string) (Stream, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	return c.stream(ctx, openai.ChatCompletionRequest{
		Model: c.fastModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		Stream:      true,
	})
}

// GenerateFromImage streams HTML converted from a wireframe/mockup image
func (c *Client) GenerateFromImage(ctx context.Context, mimeType string, data []byte) (Stream, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	return c.stream(ctx, openai.ChatCompletionRequest{
		Model: c.qualityModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: imageInstruction,
					},
				},
			},
		},
		Temperature: 0.7,
		Stream:      true,
	})
}

// ContinueChat streams a conversational edit over an existing conversation
func (c *Client) ContinueChat(ctx context.Context, conv *Conversation, message string) (Stream, error) {
	return c.continueWith(ctx, conv, chatInstruction(message))
}

// ContinueTheme streams a restyle over an existing conversation
func (c *Client) ContinueTheme(ctx context.Context, conv *Conversation, themePrompt string) (Stream, error) {
	return c.continueWith(ctx, conv, themeInstruction(themePrompt))
}

func (c *Client) continueWith(ctx context.Context, conv *Conversation, instruction string) (Stream, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	if conv == nil {
		return nil, errors.New("no active conversation")
	}

	conv.AddUser(instruction)

	return c.stream(ctx, openai.ChatCompletionRequest{
		Model:       c.qualityModel,
		Messages:    conv.messages,
		Temperature: 0.7,
		Stream:      true,
	})
}

// RefactorSnippet streams a snippet-level transform (refactor, optimize,
// comment, or explain) over an isolated text range
func (c *Client) RefactorSnippet(ctx context.Context, snippet, action string) (Stream, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	return c.stream(ctx, openai.ChatCompletionRequest{
		Model: c.analysisModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: refactorInstruction(snippet, action)},
		},
		Temperature: 0.5,
		Stream:      true,
	})
}

// ExpandIdea streams a refined generation prompt from a vague idea
func (c *Client) ExpandIdea(ctx context.Context, idea string) (Stream, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	return c.stream(ctx, openai.ChatCompletionRequest{
		Model: c.qualityModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: ideaInstruction(idea)},
		},
		Temperature: 0.8,
		Stream:      true,
	})
}

// GenerateRoadmap streams a markdown development roadmap from an idea
func (c *Client) GenerateRoadmap(ctx context.Context, idea string) (Stream, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	return c.stream(ctx, openai.ChatCompletionRequest{
		Model: c.qualityModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: roadmapInstruction(idea)},
		},
		Temperature: 0.7,
		Stream:      true,
	})
}

// GenerateFullStack streams a structured markdown project (setup steps plus
// per-file fenced blocks) for the export pipeline
func (c *Client) GenerateFullStack(ctx context.Context, idea, tech string) (Stream, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	return c.stream(ctx, openai.ChatCompletionRequest{
		Model: c.analysisModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fullStackInstruction(idea, tech)},
		},
		Temperature: 0.6,
		Stream:      true,
	})
}

// GenerateMockup synthesizes one website mockup image for the idea and
// returns it base64-encoded. Non-streaming.
func (c *Client) GenerateMockup(ctx context.Context, idea string) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}

	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Model:          c.imageModel,
		Prompt:         mockupInstruction(idea),
		N:              1,
		Size:           openai.CreateImageSize1792x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		log.Error().Err(err).Msg("mockup synthesis failed")
		return "", fmt.Errorf("failed to generate an image from the AI model: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", errors.New("AI did not return an image")
	}

	return resp.Data[0].B64JSON, nil
}
