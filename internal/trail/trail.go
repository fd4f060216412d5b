// Package trail keeps the most recent particle positions for drawing a
// fading path behind the particle.
package trail

import "github.com/san-kum/gyrosim/internal/dynamo"

// DefaultCapacity is used when a buffer is created with a non-positive size.
const DefaultCapacity = 1000

// Buffer is a fixed-capacity FIFO of positions backed by a ring. Appending to
// a full buffer overwrites the oldest entry. It is not safe for concurrent
// use.
type Buffer struct {
	points []dynamo.Vec3
	head   int // index of the oldest point
	size   int
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{points: make([]dynamo.Vec3, capacity)}
}

func (b *Buffer) Append(p dynamo.Vec3) {
	n := len(b.points)
	if b.size < n {
		b.points[(b.head+b.size)%n] = p
		b.size++
		return
	}
	b.points[b.head] = p
	b.head = (b.head + 1) % n
}

func (b *Buffer) Clear() {
	b.head = 0
	b.size = 0
}

func (b *Buffer) Len() int { return b.size }

func (b *Buffer) Cap() int { return len(b.points) }

// At returns the i-th point, oldest first.
func (b *Buffer) At(i int) dynamo.Vec3 {
	return b.points[(b.head+i)%len(b.points)]
}

// Last returns the newest point, or false when the buffer is empty.
func (b *Buffer) Last() (dynamo.Vec3, bool) {
	if b.size == 0 {
		return dynamo.Vec3{}, false
	}
	return b.At(b.size - 1), true
}

// Points copies the contents into a new slice ordered oldest to newest,
// ready to be drawn as a polyline.
func (b *Buffer) Points() []dynamo.Vec3 {
	out := make([]dynamo.Vec3, b.size)
	n := copy(out, b.points[b.head:min(b.head+b.size, len(b.points))])
	copy(out[n:], b.points[:b.size-n])
	return out
}
