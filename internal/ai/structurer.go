// Package ai asks a hosted generative-language-model to structure recognized
// text into a fixed set of key-value fields.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docextract/internal/config"
	"docextract/internal/model"
)

const promptTemplate = `Analyze the following OCR-extracted text. Provide a structured JSON output with:
- Detected document type
- Extracted key-value pairs
- Confidence estimate
- Potential personal information categories

Extracted Text:
%s

Output Format (JSON):
{
    "document_type": "",
    "key_information": {
        "name": "",
        "id_number": "",
        "date_of_birth": "",
        "address": ""
    },
    "confidence": 0.0,
    "potential_categories": []
}`

// Structurer converts free-form recognized text into StructuredFields.
type Structurer interface {
	// Structure sends the text to the language model. A transport or
	// service failure is returned as an error; a response that cannot be
	// decoded into the expected schema degrades to the Unknown fallback
	// with a nil error.
	Structure(ctx context.Context, text string) (model.StructuredFields, error)
}

type llmStructurer struct {
	llm llms.Model
	log *logrus.Logger
}

// NewStructurer builds the language-model client for the configured
// provider. The API key is not validated here; a missing key surfaces on
// first use.
func NewStructurer(ctx context.Context, cfg config.AIConfig, log *logrus.Logger) (Structurer, error) {
	var m llms.Model
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "googleai":
		m, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case "openai":
		m, err = openai.New(
			openai.WithModel(cfg.Model),
			openai.WithToken(os.Getenv("OPENAI_API_KEY")),
			openai.WithHTTPClient(instrumentedHTTPClient()),
		)
	case "ollama":
		m, err = ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(cfg.OllamaHost),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}

	return &llmStructurer{llm: m, log: log}, nil
}

func (s *llmStructurer) Structure(ctx context.Context, text string) (model.StructuredFields, error) {
	prompt := fmt.Sprintf(promptTemplate, text)

	completion, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt)
	if err != nil {
		return model.StructuredFields{}, fmt.Errorf("generate content: %w", err)
	}

	fields, ok := decodeFields(completion)
	if !ok {
		s.log.WithField("response_length", len(completion)).
			Warn("language model response did not match the requested schema")
		return model.UnstructuredFallback(), nil
	}
	return fields, nil
}

// decodeFields parses the model's textual response into StructuredFields.
// A response that parses as JSON but carries no document type is rejected
// the same way as malformed JSON.
func decodeFields(response string) (model.StructuredFields, bool) {
	var fields model.StructuredFields
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &fields); err != nil {
		return model.StructuredFields{}, false
	}
	if strings.TrimSpace(fields.DocumentType) == "" {
		return model.StructuredFields{}, false
	}
	return fields, true
}

// stripCodeFence removes a surrounding markdown code fence, which hosted
// models frequently wrap JSON answers in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func instrumentedHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}
