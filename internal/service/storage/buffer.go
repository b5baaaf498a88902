package storage

import (
	"errors"
	"sync"

	"sceneguard/internal/model"
)

// DefaultBufferSize is the number of frames aggregated per capture.
const DefaultBufferSize = 5

// ErrBufferNotReady is returned when a capture is requested before the buffer is full.
var ErrBufferNotReady = errors.New("frame buffer not ready")

// FrameBuffer is a fixed-capacity ring of the most recent frames of one camera.
// While frozen, pushes are dropped so an aggregation pass sees a stable burst.
type FrameBuffer struct {
	frames []model.Frame
	next   int
	count  int
	frozen bool
	mu     sync.Mutex
}

// NewFrameBuffer creates a FrameBuffer holding capacity frames.
func NewFrameBuffer(capacity int) *FrameBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &FrameBuffer{frames: make([]model.Frame, capacity)}
}

// Push appends a frame, overwriting the oldest when full. It returns false
// when the buffer is frozen and the frame was dropped.
func (b *FrameBuffer) Push(frame model.Frame) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen {
		return false
	}

	b.frames[b.next] = frame
	b.next = (b.next + 1) % len(b.frames)
	if b.count < len(b.frames) {
		b.count++
	}
	return true
}

// IsFull reports whether the buffer has reached capacity.
func (b *FrameBuffer) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count == len(b.frames)
}

// Len returns the number of buffered frames.
func (b *FrameBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Capacity returns the fixed buffer size.
func (b *FrameBuffer) Capacity() int {
	return len(b.frames)
}

// Freeze stops accepting frames until Thaw is called.
func (b *FrameBuffer) Freeze() {
	b.mu.Lock()
	b.frozen = true
	b.mu.Unlock()
}

// Thaw resumes accepting frames.
func (b *FrameBuffer) Thaw() {
	b.mu.Lock()
	b.frozen = false
	b.mu.Unlock()
}

// Snapshot copies the buffered frames ordered oldest to newest. The last
// element is the reference frame. It fails with ErrBufferNotReady until full.
func (b *FrameBuffer) Snapshot() ([]model.Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count < len(b.frames) {
		return nil, ErrBufferNotReady
	}

	out := make([]model.Frame, 0, len(b.frames))
	for i := 0; i < len(b.frames); i++ {
		out = append(out, b.frames[(b.next+i)%len(b.frames)])
	}
	return out, nil
}

// Reset empties the buffer.
func (b *FrameBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.frames {
		b.frames[i] = model.Frame{}
	}
	b.next = 0
	b.count = 0
}
