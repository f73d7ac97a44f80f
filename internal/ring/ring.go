// Package ring provides a fixed-capacity FIFO ring buffer.
//
// Once full, each Push overwrites the oldest element. Reads always return
// values oldest first. The buffer is not safe for concurrent use; owners
// guard it with their own lock.
package ring

// DefaultSize is used when a non-positive capacity is requested.
const DefaultSize = 60

// Buffer is a fixed-size circular buffer.
type Buffer[T any] struct {
	data  []T
	head  int
	count int
	size  int
}

// New creates a ring buffer with the specified capacity.
func New[T any](size int) *Buffer[T] {
	if size <= 0 {
		size = DefaultSize
	}
	return &Buffer[T]{
		data: make([]T, size),
		size: size,
	}
}

// Push adds a value, dropping the oldest one when the buffer is full.
func (r *Buffer[T]) Push(value T) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// Last returns the last count values in chronological order (oldest first).
// Returns fewer values if not enough are stored.
func (r *Buffer[T]) Last(count int) []T {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]T, count)

	// head is the next write position, so the newest value sits at head-1.
	start := (r.head - count + r.size) % r.size

	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}

	return result
}

// All returns every stored value in chronological order.
func (r *Buffer[T]) All() []T {
	return r.Last(r.count)
}

// Newest returns the most recently pushed value.
func (r *Buffer[T]) Newest() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	return r.data[(r.head-1+r.size)%r.size], true
}

// Len returns the number of stored values.
func (r *Buffer[T]) Len() int {
	return r.count
}

// Cap returns the buffer capacity.
func (r *Buffer[T]) Cap() int {
	return r.size
}

// Reset drops all stored values.
func (r *Buffer[T]) Reset() {
	var zero T
	for i := range r.data {
		r.data[i] = zero
	}
	r.head = 0
	r.count = 0
}
