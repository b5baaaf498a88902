package capture

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// ErrInputUnavailable is returned when a camera device or image file cannot be opened.
var ErrInputUnavailable = errors.New("input unavailable")

// Source yields encoded JPEG frames.
type Source interface {
	Next() ([]byte, error)
	Close() error
}

// CameraSource reads frames from a local video device.
type CameraSource struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
	mu      sync.Mutex
}

// OpenCamera opens a video device by index or a stream URL.
func OpenCamera(device string) (*CameraSource, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("%w: camera %s: %v", ErrInputUnavailable, device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: camera %s could not be opened", ErrInputUnavailable, device)
	}

	return &CameraSource{capture: capture, frame: gocv.NewMat()}, nil
}

// Next grabs one frame and encodes it as JPEG.
func (s *CameraSource) Next() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ok := s.capture.Read(&s.frame); !ok || s.frame.Empty() {
		return nil, fmt.Errorf("%w: camera stream ended", ErrInputUnavailable)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, s.frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// Close releases the device.
func (s *CameraSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.Close()
	return s.capture.Close()
}

// FileSource replays a list of image files, cycling when it reaches the end.
// A single still image therefore fills the whole buffer.
type FileSource struct {
	paths []string
	next  int
}

// OpenFiles checks every path up front so a bad argument fails before any analysis.
func OpenFiles(paths ...string) (*FileSource, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no image files given", ErrInputUnavailable)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrInputUnavailable, p)
		}
	}
	return &FileSource{paths: paths}, nil
}

// Next returns the contents of the next file.
func (s *FileSource) Next() ([]byte, error) {
	path := s.paths[s.next]
	s.next = (s.next + 1) % len(s.paths)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	return data, nil
}

// Close is a no-op.
func (s *FileSource) Close() error {
	return nil
}
