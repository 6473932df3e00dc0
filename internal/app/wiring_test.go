package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalplan/internal/config"
	"vitalplan/internal/planner"
	"vitalplan/internal/scanner"
)

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()

	gen, closeFn, err := NewGenerator(ctx, &config.Config{PlanGenerator: config.GeneratorMock}, nil)
	require.NoError(t, err)
	assert.IsType(t, &planner.MockGenerator{}, gen)
	assert.NoError(t, closeFn())

	gen, _, err = NewGenerator(ctx, &config.Config{PlanGenerator: config.GeneratorGroq, GroqAPIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &planner.LLMGenerator{}, gen)

	_, _, err = NewGenerator(ctx, &config.Config{PlanGenerator: "oracle"}, nil)
	assert.Error(t, err)
}

func TestNewAnalyzer(t *testing.T) {
	assert.IsType(t, &scanner.MockAnalyzer{}, NewAnalyzer(&config.Config{}, nil))
}
