// Package ring implements the compacting window buffer shared by the FIR/IIR
// filter states and the pipeline's intermediate IQ buffer. All three share the
// same invariant: a push cursor that walks forward through a fixed-capacity
// arena and, on reaching capacity, copies the last `tail` elements to the front
// before continuing — no per-sample allocation, ever.
package ring

// Window is a push-only ring with a fixed tail-preservation count. It is used
// by FIR/IIR filter states where the "window" is really just the most recent
// N inputs (or outputs) needed by the next dot product.
type Window[T any] struct {
	buf  []T
	idx  int
	tail int
}

// NewWindow allocates a Window with the given capacity, preserving the last
// `tail` elements across a wrap. idx starts at tail, matching the C
// convention (`q->idx = ntaps - 1`) where the first `tail` slots are assumed
// zeroed history.
func NewWindow[T any](capacity, tail int) *Window[T] {
	return &Window[T]{
		buf:  make([]T, capacity),
		idx:  tail,
		tail: tail,
	}
}

// Reset rewinds the cursor without clearing the arena; callers that need
// zeroed history (IIR reset does) clear it themselves first.
func (w *Window[T]) Reset() {
	w.idx = w.tail
}

// Len reports the capacity of the backing arena.
func (w *Window[T]) Len() int {
	return len(w.buf)
}

// Idx reports the current push cursor.
func (w *Window[T]) Idx() int {
	return w.idx
}

// Slice returns the backing arena for direct indexing by filter code that
// needs to read a contiguous span ending at idx.
func (w *Window[T]) Slice() []T {
	return w.buf
}

// Push appends one element, compacting the tail to the front first if the
// arena is full. Returns the index the element was written to.
func (w *Window[T]) Push(x T) int {
	if w.idx == len(w.buf) {
		copy(w.buf[:w.tail], w.buf[w.idx-w.tail:w.idx])
		w.idx = w.tail
	}
	at := w.idx
	w.buf[at] = x
	w.idx++
	return at
}

// Clear zeroes the first n elements of the arena (used by IIR reset, which
// must zero history rather than merely rewind the cursor).
func (w *Window[T]) Clear(n int) {
	var zero T
	for i := 0; i < n && i < len(w.buf); i++ {
		w.buf[i] = zero
	}
}

// Ring is a byte/sample-oriented ring buffer with separate avail/used
// cursors, used for the intermediate IQ buffer (spec.md §3): push appends at
// avail, Drain consumes from used, and Compact slides the unconsumed
// [used:avail) span to the front when the tail end runs out of room.
type Ring[T any] struct {
	buf   []T
	avail int
	used  int
}

// NewRing allocates a Ring with the given capacity.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{buf: make([]T, capacity)}
}

// Cap returns the ring's total capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Avail returns the number of elements written (including already-consumed
// ones still physically present).
func (r *Ring[T]) Avail() int {
	return r.avail
}

// Used returns the number of elements already consumed.
func (r *Ring[T]) Used() int {
	return r.used
}

// Unconsumed returns the [used:avail) span.
func (r *Ring[T]) Unconsumed() []T {
	return r.buf[r.used:r.avail]
}

// Buf exposes the backing array for callers that need to write into
// [avail:cap) directly (e.g. a decimation cascade writing its output).
func (r *Ring[T]) Buf() []T {
	return r.buf
}

// Compact slides the unconsumed span to the front of the arena if incoming
// would overflow capacity. Returns false if there still isn't enough room
// after compaction — the caller must treat that as a fatal-drop-and-report
// overflow (spec.md §7).
func (r *Ring[T]) Compact(incoming int) bool {
	if incoming+r.avail <= len(r.buf) {
		return true
	}
	if r.avail > r.used {
		n := copy(r.buf, r.buf[r.used:r.avail])
		r.avail = n
	} else {
		r.avail = 0
	}
	r.used = 0
	return incoming+r.avail <= len(r.buf)
}

// Advance records that n more elements were written starting at the previous
// Avail().
func (r *Ring[T]) Advance(n int) {
	r.avail += n
}

// Consume records that n elements were consumed starting at the previous
// Used(). Panics if that would push used beyond avail, since that would
// violate the used <= avail invariant (spec.md §8).
func (r *Ring[T]) Consume(n int) {
	if r.used+n > r.avail {
		panic("ring: consume past avail")
	}
	r.used += n
}

// Reset empties the ring without touching the backing array.
func (r *Ring[T]) Reset() {
	r.avail = 0
	r.used = 0
}
