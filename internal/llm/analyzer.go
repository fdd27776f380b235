package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"franchiseops/internal/metrics"
)

var (
	ImageModels = []string{"gemini-flash-latest", "gemini-2.0-flash", "gemini-2.5-flash", "gemini-pro"}
	TextModels  = []string{"gemini-1.5-flash", "gemini-2.0-flash", "gemini-pro"}
)

// Analyzer turns photos and pasted text into menu dishes.
type Analyzer struct {
	client      Client
	log         *zap.Logger
	imageModels []string
	textModels  []string
}

type Option func(*Analyzer)

func WithImageModels(models ...string) Option {
	return func(a *Analyzer) { a.imageModels = models }
}

func WithTextModels(models ...string) Option {
	return func(a *Analyzer) { a.textModels = models }
}

func NewAnalyzer(client Client, log *zap.Logger, opts ...Option) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Analyzer{
		client:      client,
		log:         log,
		imageModels: ImageModels,
		textModels:  TextModels,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Configured reports whether calls can reach a model at all.
func (a *Analyzer) Configured() bool {
	if a.client == nil {
		return false
	}
	if c, ok := a.client.(interface{ Configured() bool }); ok {
		return c.Configured()
	}
	return true
}

// A photo yields one dish, so its reply stays short. Text analysis is not
// capped because a full menu can list hundreds of items.
const imageMaxTokens = 2048

func (a *Analyzer) AnalyzeImage(ctx context.Context, img Image) (Dish, string, error) {
	if !a.Configured() {
		return Dish{}, "", ErrNotConfigured
	}
	if len(img.Data) == 0 {
		return Dish{}, "", errors.New("empty image")
	}

	chain := Chain[Dish]{Candidates: a.imageModels, Observe: a.observe("image")}
	return chain.Run(ctx, func(ctx context.Context, model string) (Dish, error) {
		raw, err := a.client.Generate(ctx, Request{
			Model:     model,
			Prompt:    BuildImagePrompt(),
			Image:     &img,
			JSONOnly:  supportsJSONMode(model),
			MaxTokens: imageMaxTokens,
		})
		if err != nil {
			return Dish{}, err
		}
		return ParseDish(raw)
	})
}

func (a *Analyzer) AnalyzeText(ctx context.Context, text string) ([]Dish, string, error) {
	if !a.Configured() {
		return nil, "", ErrNotConfigured
	}
	text = CleanMenuText(text)
	if text == "" {
		return nil, "", errors.New("empty text")
	}

	chain := Chain[[]Dish]{Candidates: a.textModels, Observe: a.observe("text")}
	return chain.Run(ctx, func(ctx context.Context, model string) ([]Dish, error) {
		raw, err := a.client.Generate(ctx, Request{
			Model:    model,
			Prompt:   BuildTextPrompt(text),
			JSONOnly: supportsJSONMode(model),
		})
		if err != nil {
			return nil, err
		}
		return ParseDishList(raw)
	})
}

func (a *Analyzer) observe(kind string) func(string, error) {
	return func(model string, err error) {
		if err == nil {
			metrics.AICalls.WithLabelValues(model, "ok").Inc()
			a.log.Info("analysis succeeded", zap.String("kind", kind), zap.String("model", model))
			return
		}
		metrics.AICalls.WithLabelValues(model, outcome(err)).Inc()
		a.log.Warn("model attempt failed",
			zap.String("kind", kind),
			zap.String("model", model),
			zap.Error(err),
		)
	}
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrInvalidOutput):
		return "invalid_output"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("http_%d", apiErr.Status)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}

// The 1.0 gemini-pro endpoint rejects responseMimeType.
func supportsJSONMode(model string) bool {
	return model != "gemini-pro"
}
