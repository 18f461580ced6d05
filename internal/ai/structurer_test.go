package ai

import (
	"context"
	"errors"
	"testing"

	"docextract/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// stubModel is a canned llms.Model for driving Structure without a live
// service.
type stubModel struct {
	response string
	err      error
}

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: s.response}},
	}, nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return s.response, s.err
}

func newTestStructurer(m llms.Model) Structurer {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &llmStructurer{llm: m, log: log}
}

func TestStructure(t *testing.T) {
	ctx := context.Background()

	t.Run("valid JSON response", func(t *testing.T) {
		s := newTestStructurer(&stubModel{response: `{
			"document_type": "Passport",
			"key_information": {"name": "Jane Doe", "id_number": "X123", "date_of_birth": "1990-01-02", "address": "1 Main St"},
			"confidence": 0.92,
			"potential_categories": ["PII"]
		}`})

		fields, err := s.Structure(ctx, "some text")
		require.NoError(t, err)
		assert.Equal(t, "Passport", fields.DocumentType)
		assert.Equal(t, "Jane Doe", fields.KeyInformation.Name)
		assert.Equal(t, "X123", fields.KeyInformation.IDNumber)
		assert.InDelta(t, 0.92, fields.Confidence, 1e-9)
		assert.Equal(t, []string{"PII"}, fields.PotentialCategories)
	})

	t.Run("fenced JSON response", func(t *testing.T) {
		s := newTestStructurer(&stubModel{response: "```json\n{\"document_type\": \"Invoice\", \"key_information\": {}, \"confidence\": 0.5, \"potential_categories\": []}\n```"})

		fields, err := s.Structure(ctx, "some text")
		require.NoError(t, err)
		assert.Equal(t, "Invoice", fields.DocumentType)
	})

	t.Run("non-JSON response falls back", func(t *testing.T) {
		s := newTestStructurer(&stubModel{response: "Sorry, I cannot help with that."})

		fields, err := s.Structure(ctx, "some text")
		require.NoError(t, err)
		assert.Equal(t, model.UnstructuredFallback(), fields)
	})

	t.Run("JSON without document_type falls back", func(t *testing.T) {
		s := newTestStructurer(&stubModel{response: `{"confidence": 0.9}`})

		fields, err := s.Structure(ctx, "some text")
		require.NoError(t, err)
		assert.Equal(t, model.UnstructuredFallback(), fields)
	})

	t.Run("service failure returns error", func(t *testing.T) {
		s := newTestStructurer(&stubModel{err: errors.New("quota exceeded")})

		_, err := s.Structure(ctx, "some text")
		assert.Error(t, err)
	})
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced with tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced without tag", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
