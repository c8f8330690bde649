// Package pipeline wires the DSP packages (decimate, demod, audio, snr,
// gain) into the worker-thread state machine of spec.md §5, ported from
// original_source/src/nrsc5.c's worker_thread/nrsc5_start/nrsc5_stop/
// nrsc5_close and input.c's input_cb.
package pipeline

import "hz.tools/fmradio/iq"

// Kind distinguishes the Event union's variants (spec.md §6: "union event
// with variants IQ, SYNC, LOST_SYNC, HDC, AUDIO, MER, BER, LOT, SIG, SIS,
// ID3"). Only IQ and Audio are produced by this core; the rest, including
// Sync/LostSync, are carried as opaque Raw payloads from the external
// digital decoder,
// so a Sink observing the full union compiles against one type regardless
// of which side produced the event.
type Kind int

const (
	KindIQ Kind = iota
	KindSync
	KindLostSync
	KindHDC
	KindAudio
	KindMER
	KindBER
	KindLOT
	KindSIG
	KindSIS
	KindID3
)

// AudioEvent is the one variant this core fully owns: a block of
// stereo-duplicated int16 PCM for one program (spec.md §6: "AUDIO(program,
// int16 stereo pairs, count)").
type AudioEvent struct {
	Program int
	Samples []int16 // interleaved L,R,L,R,...
}

// IQEvent carries the pre-final decimated IQ passthrough (spec.md §12's
// IQ-capture feature), reported at the exact point original_source/src/
// input.c's input_cb calls nrsc5_report_iq: after amplitude-halving, the
// log2 cascade, and offset-tuning, but before the final halfband stage
// that reaches the ring buffer's rate.
type IQEvent struct {
	Samples []iq.Sample
}

// Event is the sum type spec.md §9's design note calls for: "a sum-typed
// Event with one variant per kind and a single sink interface on_event".
type Event struct {
	Kind  Kind
	Audio AudioEvent
	IQ    IQEvent
	Raw   any // external-decoder payload for all other Kinds
}

// Sink receives Events in worker-thread production order. Per spec.md §5,
// a Sink must not call back into mutating pipeline APIs (SetFrequency,
// SetGain, Start, Stop) from OnEvent — that reentrancy would deadlock on
// the worker mutex.
type Sink interface {
	OnEvent(Event)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(Event)

// OnEvent implements Sink.
func (f SinkFunc) OnEvent(e Event) { f(e) }
