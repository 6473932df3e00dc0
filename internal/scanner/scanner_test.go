package scanner

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalplan/internal/domain"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeStream struct {
	cam    *fakeCamera
	img    Image
	capErr error
}

func (s *fakeStream) Capture() (Image, error) { return s.img, s.capErr }
func (s *fakeStream) Close() error {
	s.cam.open--
	s.cam.closes++
	return nil
}

type fakeCamera struct {
	openErr error
	capErr  error
	img     Image
	open    int
	closes  int
	facings []Facing
}

func (c *fakeCamera) Open(ctx context.Context, facing Facing) (Stream, error) {
	c.facings = append(c.facings, facing)
	if c.openErr != nil {
		return nil, c.openErr
	}
	c.open++
	return &fakeStream{cam: c, img: c.img, capErr: c.capErr}, nil
}

func TestMockAnalyzer(t *testing.T) {
	a := NewMockAnalyzer(WithLatency(0))
	img := Image{Data: []byte{1, 2, 3}}

	for i := 0; i < 20; i++ {
		food, err := a.Analyze(context.Background(), img)
		require.NoError(t, err)
		assert.True(t, IsCatalogFood(food.ID), "unexpected food %q", food.ID)
		assert.Greater(t, food.Confidence, 0.0)
		assert.LessOrEqual(t, food.Confidence, 1.0)
		assert.False(t, food.AnalyzedAt.IsZero())
		assert.Equal(t, img.Data, food.ImageData)
	}

	t.Run("HonoursCancellation", func(t *testing.T) {
		slow := NewMockAnalyzer(WithLatency(time.Minute))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := slow.Analyze(ctx, img)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("ResultDoesNotAliasCatalog", func(t *testing.T) {
		food, err := a.Analyze(context.Background(), img)
		require.NoError(t, err)
		food.Insights[0] = "changed"
		for _, f := range foodCatalog {
			assert.NotEqual(t, "changed", f.Insights[0])
		}
	})
}

type uploaderStub struct {
	food     domain.ScannedFood
	err      error
	filename string
}

func (u *uploaderStub) AnalyzeImage(ctx context.Context, filename string, data []byte) (domain.ScannedFood, error) {
	u.filename = filename
	return u.food, u.err
}

func TestRemoteAnalyzer(t *testing.T) {
	up := &uploaderStub{food: domain.ScannedFood{ID: "x", Name: "Kiwi", Confidence: 0.9}}
	food, err := NewRemoteAnalyzer(up).Analyze(context.Background(), Image{Data: []byte{9}, Filename: "kiwi.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "kiwi.jpg", up.filename)
	assert.Equal(t, 0.9, food.Confidence)
	assert.False(t, food.AnalyzedAt.IsZero())

	for _, c := range []float64{0, -0.2, 1.5} {
		up.food.Confidence = c
		_, err = NewRemoteAnalyzer(up).Analyze(context.Background(), Image{Data: []byte{9}})
		assert.ErrorIs(t, err, ErrInvalidAnalysis, "confidence %v", c)
	}

	up.err = errors.New("offline")
	_, err = NewRemoteAnalyzer(up).Analyze(context.Background(), Image{})
	assert.ErrorContains(t, err, "offline")
}

func TestNewImage(t *testing.T) {
	img, err := NewImage(pngBytes(t), "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "capture.png", img.Filename)

	_, err = NewImage([]byte("hello, not an image"), "notes.txt")
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = NewImage(nil, "x")
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestSessionReleasesCamera(t *testing.T) {
	ctx := context.Background()

	t.Run("StartStop", func(t *testing.T) {
		cam := &fakeCamera{}
		s := NewSession(cam)
		require.NoError(t, s.Start(ctx))
		assert.True(t, s.Scanning())
		assert.Equal(t, 1, cam.open)

		require.NoError(t, s.Stop())
		require.NoError(t, s.Stop())
		assert.Equal(t, 0, cam.open)
		assert.Equal(t, 1, cam.closes)
	})

	t.Run("CaptureReleases", func(t *testing.T) {
		cam := &fakeCamera{img: Image{Data: []byte{1}}}
		s := NewSession(cam)
		require.NoError(t, s.Start(ctx))

		img, err := s.Capture()
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, img.Data)
		assert.False(t, s.Scanning())
		assert.Equal(t, 0, cam.open)
	})

	t.Run("CaptureErrorReleases", func(t *testing.T) {
		cam := &fakeCamera{capErr: errors.New("sensor glitch")}
		s := NewSession(cam)
		require.NoError(t, s.Start(ctx))

		_, err := s.Capture()
		assert.Error(t, err)
		assert.Equal(t, 0, cam.open)
		assert.Equal(t, AnalyzeErrorMessage, s.Banner())
	})

	t.Run("PermissionDeniedIsBanner", func(t *testing.T) {
		cam := &fakeCamera{openErr: os.ErrPermission}
		s := NewSession(cam)

		err := s.Start(ctx)
		assert.ErrorIs(t, err, ErrCameraUnavailable)
		assert.Equal(t, CameraErrorMessage, s.Banner())
		assert.False(t, s.Scanning())

		s.Reset()
		assert.Empty(t, s.Banner())
	})

	t.Run("ResetAndCloseRelease", func(t *testing.T) {
		cam := &fakeCamera{}
		s := NewSession(cam)
		require.NoError(t, s.Start(ctx))
		s.Reset()
		assert.Equal(t, 0, cam.open)

		require.NoError(t, s.Start(ctx))
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
		assert.Equal(t, 0, cam.open)
		assert.Equal(t, 2, cam.closes)
	})

	t.Run("SwitchCameraReopens", func(t *testing.T) {
		cam := &fakeCamera{}
		s := NewSession(cam)
		require.NoError(t, s.SwitchCamera(ctx))
		assert.Equal(t, FacingUser, s.Facing())
		assert.Empty(t, cam.facings)

		require.NoError(t, s.Start(ctx))
		require.NoError(t, s.SwitchCamera(ctx))
		assert.Equal(t, []Facing{FacingUser, FacingEnvironment}, cam.facings)
		assert.Equal(t, 1, cam.open)
		_ = s.Close()
	})

	t.Run("CaptureWithoutStart", func(t *testing.T) {
		_, err := NewSession(&fakeCamera{}).Capture()
		assert.ErrorIs(t, err, ErrNotScanning)
	})
}

func TestGuardReleaseIsIdempotent(t *testing.T) {
	cam := &fakeCamera{}
	g, err := Acquire(context.Background(), cam, FacingEnvironment)
	require.NoError(t, err)
	require.NoError(t, g.Release())
	require.NoError(t, g.Release())
	assert.Equal(t, 1, cam.closes)

	var nilGuard *Guard
	assert.NoError(t, nilGuard.Release())

	_, err = Acquire(context.Background(), nil, FacingUser)
	assert.ErrorIs(t, err, ErrCameraUnavailable)
}

func TestFileCameraScan(t *testing.T) {
	dir := t.TempDir()
	frame := filepath.Join(dir, "frame.png")
	require.NoError(t, os.WriteFile(frame, pngBytes(t), 0o600))

	s := NewSession(FileCamera{Default: frame})
	require.NoError(t, s.Start(context.Background()))
	img, err := s.Capture()
	require.NoError(t, err)
	assert.False(t, s.Scanning())

	food, err := NewMockAnalyzer(WithLatency(0)).Analyze(context.Background(), img)
	require.NoError(t, err)
	assert.True(t, IsCatalogFood(food.ID))
	assert.NotEmpty(t, food.ImageData)

	missing := NewSession(FileCamera{Default: filepath.Join(dir, "missing")})
	assert.ErrorIs(t, missing.Start(context.Background()), ErrCameraUnavailable)
	assert.Equal(t, CameraErrorMessage, missing.Banner())
}
