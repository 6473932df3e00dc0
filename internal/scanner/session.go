package scanner

import (
	"context"
	"errors"
)

// ErrNotScanning is returned by Capture when no camera is open.
var ErrNotScanning = errors.New("camera is not running")

// Session tracks the camera side of the scanner view: whether a stream is
// open, which camera is selected and the banner shown to the user. The
// camera is released on stop, capture, error, reset and close.
type Session struct {
	camera Camera
	facing Facing
	guard  *Guard
	banner string
}

func NewSession(cam Camera) *Session {
	return &Session{camera: cam, facing: FacingEnvironment}
}

func (s *Session) Scanning() bool { return s.guard != nil }
func (s *Session) Facing() Facing { return s.facing }
func (s *Session) Banner() string { return s.banner }

// SetBanner replaces the user-facing message. An empty string clears it.
func (s *Session) SetBanner(msg string) { s.banner = msg }

// Start opens the selected camera. On failure the banner is set and the
// upload path remains usable.
func (s *Session) Start(ctx context.Context) error {
	s.banner = ""
	if s.guard != nil {
		return nil
	}
	g, err := Acquire(ctx, s.camera, s.facing)
	if err != nil {
		s.banner = CameraErrorMessage
		return err
	}
	s.guard = g
	return nil
}

// Stop releases the camera if it is open.
func (s *Session) Stop() error {
	if s.guard == nil {
		return nil
	}
	err := s.guard.Release()
	s.guard = nil
	return err
}

// Capture grabs one frame and always releases the camera, whether or not
// the frame could be read.
func (s *Session) Capture() (Image, error) {
	if s.guard == nil {
		return Image{}, ErrNotScanning
	}
	img, err := s.guard.Capture()
	_ = s.Stop()
	if err != nil {
		s.banner = AnalyzeErrorMessage
		return Image{}, err
	}
	return img, nil
}

// SwitchCamera flips the facing and reopens the stream if one was running.
func (s *Session) SwitchCamera(ctx context.Context) error {
	s.facing = s.facing.Toggle()
	if s.guard == nil {
		return nil
	}
	_ = s.Stop()
	return s.Start(ctx)
}

// Reset clears the banner and releases the camera.
func (s *Session) Reset() {
	s.banner = ""
	_ = s.Stop()
}

// Close releases everything. It is safe to call more than once.
func (s *Session) Close() error {
	return s.Stop()
}
