package app

import (
	"context"
	"fmt"

	"vitalplan/internal/config"
	"vitalplan/internal/llm"
	"vitalplan/internal/planner"
	"vitalplan/internal/scanner"
)

// NewGenerator builds the plan generator selected by PLAN_GENERATOR. The
// returned func releases model clients and is never nil.
func NewGenerator(ctx context.Context, cfg *config.Config, recorder planner.MetaRecorder) (planner.Generator, func() error, error) {
	noop := func() error { return nil }
	switch cfg.PlanGenerator {
	case config.GeneratorGroq:
		return planner.NewLLMGenerator(llm.NewGroqClient(cfg), recorder), noop, nil
	case config.GeneratorGemini:
		client, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gemini generator: %w", err)
		}
		return planner.NewLLMGenerator(client, recorder), client.Close, nil
	case config.GeneratorMock, "":
		return planner.NewMockGenerator(planner.WithLatency(cfg.PlanLatency)), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown plan generator %q", cfg.PlanGenerator)
}

// NewAnalyzer returns the remote analyzer when an uploader is given and the
// mock otherwise.
func NewAnalyzer(cfg *config.Config, uploader scanner.Uploader) scanner.Analyzer {
	if uploader != nil {
		return scanner.NewRemoteAnalyzer(uploader)
	}
	return scanner.NewMockAnalyzer(scanner.WithLatency(cfg.ScanLatency))
}
