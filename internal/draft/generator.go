package draft

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// TextService is the external generative text dependency: opaque, slow, and
// allowed to fail.
type TextService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeneratorConfig bounds the generator's use of the text service.
type GeneratorConfig struct {
	Timeout       time.Duration
	MaxConcurrent int
	Logger        *logrus.Logger
}

// Generator invokes the text service with a bounded timeout and a bounded
// number of in-flight calls, so concurrent requests are not serialized
// behind one slow generation. All failures degrade to an empty result:
// generation never aborts the enclosing request.
type Generator struct {
	svc     TextService
	timeout time.Duration
	sem     chan struct{}
	logger  *logrus.Logger
}

func NewGenerator(svc TextService, cfg GeneratorConfig) *Generator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Generator{
		svc:     svc,
		timeout: cfg.Timeout,
		sem:     make(chan struct{}, cfg.MaxConcurrent),
		logger:  cfg.Logger,
	}
}

// Generate resolves to the generated text, or "" on timeout, provider
// error, or an empty completion. The external call is the generation path's
// only suspension point and resolves exactly once.
func (g *Generator) Generate(ctx context.Context, prompt string) string {
	select {
	case g.sem <- struct{}{}:
		defer func() { <-g.sem }()
	case <-ctx.Done():
		g.logger.Warn("generation slot wait cancelled")
		return ""
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type completion struct {
		text string
		err  error
	}
	done := make(chan completion, 1)
	go func() {
		text, err := g.svc.Complete(callCtx, prompt)
		done <- completion{text: text, err: err}
	}()

	select {
	case <-callCtx.Done():
		g.logger.Warnf("generation timed out after %s", g.timeout)
		return ""
	case result := <-done:
		if result.err != nil {
			g.logger.Warnf("generation failed: %v", result.err)
			return ""
		}
		return result.text
	}
}

// GenerateDrafts runs the full pipeline for one platform: build the prompt,
// call the text service, and parse candidates out of whatever came back.
// Prompt building errors are the caller's (bad input); everything past that
// degrades to an empty list.
func (g *Generator) GenerateDrafts(ctx context.Context, platform string, vars map[string]string) ([]string, error) {
	prompt, err := BuildPrompt(platform, vars)
	if err != nil {
		return nil, err
	}

	text := g.Generate(ctx, prompt)
	if text == "" {
		return nil, nil
	}
	return Parse(text), nil
}
