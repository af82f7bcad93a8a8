package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"studymate.dev/presentation/internal/config"
	"studymate.dev/presentation/internal/logging"
)

const (
	defaultChatModelName = "gemini-2.5-flash"

	emptyResponseText   = "I'm sorry, I couldn't generate a response at this time. Please try again."
	nonTextResponseText = "I received an empty or non-text response, please try rephrasing your question."
)

// Generator sends one request to a text generation backend.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	// GenerateStream calls onChunk for every piece of text as it arrives
	// and returns the full text. An error from onChunk aborts the stream.
	GenerateStream(ctx context.Context, req GenerationRequest, onChunk func(string) error) (string, error)
}

type LLMService struct {
	client    *genai.Client
	modelName string
}

func NewLLMService(ctx context.Context) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	modelName := config.AppConfig.GeminiModel
	if modelName == "" {
		modelName = defaultChatModelName
	}

	return &LLMService{
		client:    client,
		modelName: modelName,
	}, nil
}

func (s *LLMService) Close() error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("closing GenAI client: %w", err)
	}
	logging.Infof("GenAI client closed")
	return nil
}

func (s *LLMService) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	model := s.client.GenerativeModel(s.modelName)

	resp, err := model.GenerateContent(ctx, requestParts(req)...)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		logging.Warnf("Gemini response was empty or had no valid candidates/parts")
		return emptyResponseText, nil
	}

	text := responseText(resp)
	if text == "" {
		logging.Warnf("Gemini response had no text parts")
		return nonTextResponseText, nil
	}
	return text, nil
}

func (s *LLMService) GenerateStream(ctx context.Context, req GenerationRequest, onChunk func(string) error) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	iter := model.GenerateContentStream(ctx, requestParts(req)...)

	var full strings.Builder
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("gemini stream failed: %w", err)
		}

		chunk := responseText(resp)
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if err := onChunk(chunk); err != nil {
			return full.String(), err
		}
	}

	if full.Len() == 0 {
		logging.Warnf("Gemini stream finished without text")
		if err := onChunk(emptyResponseText); err != nil {
			return emptyResponseText, err
		}
		return emptyResponseText, nil
	}
	return full.String(), nil
}

func requestParts(req GenerationRequest) []genai.Part {
	parts := make([]genai.Part, 0, 2)
	if req.Image != nil {
		parts = append(parts, genai.Blob{MIMEType: req.Image.MIMEType, Data: req.Image.Data})
	}
	return append(parts, genai.Text(req.Text))
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
