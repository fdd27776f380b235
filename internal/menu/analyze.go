package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"franchiseops/internal/llm"
	"franchiseops/internal/metrics"
	"franchiseops/internal/storage"
)

// Analyzer is the generative-model side of menu entry.
type Analyzer interface {
	Configured() bool
	AnalyzeImage(ctx context.Context, img llm.Image) (llm.Dish, string, error)
	AnalyzeText(ctx context.Context, text string) ([]llm.Dish, string, error)
}

var (
	ErrInvalidInput   = errors.New("invalid analysis input")
	ErrAnalysisFailed = errors.New("image analysis failed")
)

const warnNotConfigured = "GOOGLE_API_KEY not configured"

type ImageAnalysis struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Model       string `json:"model,omitempty"`
	Mock        bool   `json:"mock,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

type TextAnalysis struct {
	Items    []llm.Dish `json:"items"`
	Model    string     `json:"model,omitempty"`
	Mock     bool       `json:"mock,omitempty"`
	Fallback bool       `json:"fallback,omitempty"`
	Warning  string     `json:"warning,omitempty"`
}

// AnalyzeImage suggests a dish for a photo. Without a key it answers with a
// labelled demo dish; when every model fails it returns ErrAnalysisFailed.
func (s *Service) AnalyzeImage(ctx context.Context, dataURL string) (*ImageAnalysis, error) {
	if strings.TrimSpace(dataURL) == "" {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}
	mimeType, data, err := storage.DecodeDataURL(dataURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, mimeType)
	}

	if s.analyzer == nil || !s.analyzer.Configured() {
		metrics.AIFallbacks.WithLabelValues("image", "not_configured").Inc()
		return &ImageAnalysis{
			Name:        "Prato da Estância (Demo)",
			Description: "Sample text. Set GOOGLE_API_KEY to describe dishes with the real model.",
			Mock:        true,
			Warning:     warnNotConfigured,
		}, nil
	}

	dish, model, err := s.analyzer.AnalyzeImage(ctx, llm.Image{MIMEType: mimeType, Data: data})
	if err != nil {
		s.log.Error("image analysis failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	return &ImageAnalysis{Name: dish.Name, Description: dish.Description, Model: model}, nil
}

// AnalyzeText extracts dishes from pasted text. It always answers: without a
// key or when the models fail it falls back to splitting lines.
func (s *Service) AnalyzeText(ctx context.Context, text string) (*TextAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	if s.analyzer == nil || !s.analyzer.Configured() {
		metrics.AIFallbacks.WithLabelValues("text", "not_configured").Inc()

		if items := SplitLines(text); len(items) > 0 {
			return &TextAnalysis{Items: items, Warning: "AI not configured; imported line by line"}, nil
		}
		return &TextAnalysis{
			Items: []llm.Dish{{
				Name:        "Sample dish 1",
				Description: "Set GOOGLE_API_KEY for model-assisted import.",
			}},
			Mock:    true,
			Warning: warnNotConfigured,
		}, nil
	}

	items, model, err := s.analyzer.AnalyzeText(ctx, text)
	if err != nil {
		metrics.AIFallbacks.WithLabelValues("text", "models_failed").Inc()
		s.log.Warn("text analysis failed, splitting lines", zap.Error(err))
		return &TextAnalysis{
			Items:    SplitLines(text),
			Fallback: true,
			Warning:  "AI failed; simplified line import used",
		}, nil
	}

	return &TextAnalysis{Items: items, Model: model}, nil
}

// SplitLines is the model-free import: one dish per non-blank line. Lines
// starting with "- " are treated as notes and dropped; a leading -, * or •
// bullet is stripped otherwise.
func SplitLines(text string) []llm.Dish {
	out := []llm.Dish{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "- ") {
			continue
		}

		for _, bullet := range []string{"-", "*", "•"} {
			if rest, ok := strings.CutPrefix(line, bullet); ok {
				line = strings.TrimPrefix(rest, " ")
				break
			}
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		out = append(out, llm.Dish{Name: line})
	}
	return out
}
