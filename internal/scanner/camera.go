package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// CameraErrorMessage is the banner shown when the camera cannot be opened.
const CameraErrorMessage = "Unable to access camera. Please check permissions or try uploading an image."

// ErrCameraUnavailable wraps every failure to acquire a camera.
var ErrCameraUnavailable = errors.New("camera unavailable")

// Facing selects the front or back camera.
type Facing string

const (
	FacingUser        Facing = "user"
	FacingEnvironment Facing = "environment"
)

// Toggle returns the opposite facing.
func (f Facing) Toggle() Facing {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

// Camera hands out exclusive streams. Each opened Stream holds the device
// until it is closed.
type Camera interface {
	Open(ctx context.Context, facing Facing) (Stream, error)
}

// Stream is an open camera.
type Stream interface {
	Capture() (Image, error)
	Close() error
}

// Guard owns an open Stream and releases it exactly once.
type Guard struct {
	stream Stream
	once   sync.Once
	err    error
}

// Acquire opens cam and wraps the stream in a Guard. Any failure is reported
// as ErrCameraUnavailable.
func Acquire(ctx context.Context, cam Camera, facing Facing) (*Guard, error) {
	if cam == nil {
		return nil, fmt.Errorf("%w: no camera configured", ErrCameraUnavailable)
	}
	s, err := cam.Open(ctx, facing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	return &Guard{stream: s}, nil
}

// Capture grabs one frame. The stream is not released.
func (g *Guard) Capture() (Image, error) {
	return g.stream.Capture()
}

// Release closes the stream. Later calls return the first result.
func (g *Guard) Release() error {
	if g == nil {
		return nil
	}
	g.once.Do(func() {
		g.err = g.stream.Close()
	})
	return g.err
}

// FileCamera reads frames from a file or device node. Opening it holds an
// OS file handle until the stream is closed.
type FileCamera struct {
	// Paths maps a facing to its source. A missing facing falls back to
	// Default.
	Paths   map[Facing]string
	Default string
}

func (c FileCamera) Open(ctx context.Context, facing Facing) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := c.Paths[facing]
	if path == "" {
		path = c.Default
	}
	if path == "" {
		return nil, fmt.Errorf("no source for %s camera", facing)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &fileStream{f: f}, nil
}

type fileStream struct {
	f *os.File
}

func (s *fileStream) Capture() (Image, error) {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return Image{}, fmt.Errorf("failed to rewind frame source: %w", err)
	}
	data, err := io.ReadAll(s.f)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read frame: %w", err)
	}
	return NewImage(data, filepath.Base(s.f.Name()))
}

func (s *fileStream) Close() error {
	return s.f.Close()
}
