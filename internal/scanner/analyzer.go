// Package scanner turns a captured or uploaded food photo into nutrition data.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"vitalplan/internal/domain"
	"vitalplan/internal/shared"
)

// DefaultLatency is the simulated processing time of the mock analyzer.
const DefaultLatency = 3 * time.Second

// AnalyzeErrorMessage is shown when analysis fails for any reason.
const AnalyzeErrorMessage = "Failed to analyze image. Please try again."

var (
	ErrEmptyImage      = errors.New("image is empty")
	ErrNotAnImage      = errors.New("file is not an image")
	ErrInvalidAnalysis = errors.New("invalid analysis result")
)

// Image is a single frame or uploaded photo.
type Image struct {
	Data        []byte
	Filename    string
	ContentType string
}

// NewImage detects the content type of data and rejects anything that is
// not an image.
func NewImage(data []byte, filename string) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Image{}, fmt.Errorf("%w: detected %s", ErrNotAnImage, mt.String())
	}
	if filename == "" {
		filename = "capture" + mt.Extension()
	}
	return Image{Data: data, Filename: filename, ContentType: mt.String()}, nil
}

// Analyzer produces exactly one food record per image.
type Analyzer interface {
	Analyze(ctx context.Context, img Image) (domain.ScannedFood, error)
}

// MockAnalyzer waits a fixed delay and returns a random food from a small
// catalog. The image content is not inspected.
type MockAnalyzer struct {
	latency time.Duration
	now     func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

type MockOption func(*MockAnalyzer)

func WithLatency(d time.Duration) MockOption {
	return func(a *MockAnalyzer) { a.latency = d }
}

func WithRand(r *rand.Rand) MockOption {
	return func(a *MockAnalyzer) { a.rnd = r }
}

func WithClock(now func() time.Time) MockOption {
	return func(a *MockAnalyzer) { a.now = now }
}

func NewMockAnalyzer(opts ...MockOption) *MockAnalyzer {
	a := &MockAnalyzer{
		latency: DefaultLatency,
		now:     time.Now,
		rnd:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *MockAnalyzer) Analyze(ctx context.Context, img Image) (domain.ScannedFood, error) {
	if err := shared.Sleep(ctx, a.latency); err != nil {
		return domain.ScannedFood{}, err
	}

	a.mu.Lock()
	food := cloneFood(foodCatalog[a.rnd.IntN(len(foodCatalog))])
	a.mu.Unlock()

	food.AnalyzedAt = a.now()
	food.ImageData = img.Data
	return food, nil
}

// Uploader is the backend call used by RemoteAnalyzer.
type Uploader interface {
	AnalyzeImage(ctx context.Context, filename string, data []byte) (domain.ScannedFood, error)
}

// RemoteAnalyzer delegates analysis to the backend.
type RemoteAnalyzer struct {
	uploader Uploader
}

func NewRemoteAnalyzer(u Uploader) *RemoteAnalyzer {
	return &RemoteAnalyzer{uploader: u}
}

func (a *RemoteAnalyzer) Analyze(ctx context.Context, img Image) (domain.ScannedFood, error) {
	food, err := a.uploader.AnalyzeImage(ctx, img.Filename, img.Data)
	if err != nil {
		return domain.ScannedFood{}, fmt.Errorf("failed to analyze image remotely: %w", err)
	}
	if food.Confidence <= 0 || food.Confidence > 1 {
		return domain.ScannedFood{}, fmt.Errorf("%w: confidence %v outside (0, 1]", ErrInvalidAnalysis, food.Confidence)
	}
	if food.AnalyzedAt.IsZero() {
		food.AnalyzedAt = time.Now()
	}
	food.ImageData = img.Data
	return food, nil
}
