package pipeline

import (
	"hz.tools/fmradio/internal/ring"
	"hz.tools/fmradio/iq"
)

// IQRing is the intermediate IQ buffer of spec.md §3/§8 ("Ring compaction:
// used <= avail <= capacity holds across every call; no sample is
// delivered twice"). The decimation cascade writes its output in; the FM
// path drains it in 4-sample chunks. Overflow after compaction is the
// fatal-drop-and-report condition of spec.md §7, signalled via ok=false
// rather than a panic — a live radio keeps running through it.
type IQRing struct {
	r *ring.Ring[iq.Sample]
}

// NewIQRing allocates an IQRing of the given sample capacity.
func NewIQRing(capacity int) *IQRing {
	return &IQRing{r: ring.NewRing[iq.Sample](capacity)}
}

// Push appends samples, compacting the unconsumed span first if there
// isn't room. ok is false if compaction still didn't make room — the
// buffer-overflow error kind of spec.md §7.
func (q *IQRing) Push(samples []iq.Sample) (ok bool) {
	if !q.r.Compact(len(samples)) {
		return false
	}
	n := copy(q.r.Buf()[q.r.Avail():], samples)
	q.r.Advance(n)
	return true
}

// Unconsumed returns the not-yet-drained span.
func (q *IQRing) Unconsumed() []iq.Sample {
	return q.r.Unconsumed()
}

// Consume marks the first n samples of Unconsumed as drained.
func (q *IQRing) Consume(n int) {
	q.r.Consume(n)
}

// Reset empties the ring, used on a pipeline stop/reset.
func (q *IQRing) Reset() {
	q.r.Reset()
}
