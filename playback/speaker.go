// Package playback implements a pipeline.Sink that plays AUDIO events on
// the local sound card, supplementing spec.md's "HTTP/streaming server"
// non-goal with a direct local listen path (SPEC_FULL.md §11). Grounded on
// the audio post-chain's 44100 Hz stereo int16 block contract (spec.md §6)
// and the teacher pack's portaudio usage convention.
package playback

import (
	"github.com/gordonklaus/portaudio"

	"hz.tools/fmradio/pipeline"
)

// SampleRate is the fixed output rate the audio post-chain produces
// (spec.md §6's resampler target).
const SampleRate = 44100

// Speaker streams AudioEvent blocks to the default output device.
type Speaker struct {
	stream *portaudio.Stream
	queue  chan []int16
	done   chan struct{}
}

// NewSpeaker opens the default output device at SampleRate, stereo.
func NewSpeaker() (*Speaker, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	s := &Speaker{
		queue: make(chan []int16, 8),
		done:  make(chan struct{}),
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(SampleRate), 0, s.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	s.stream = stream
	return s, nil
}

// callback is portaudio's pull-model write callback; it drains the oldest
// queued block, or emits silence if none is ready, so the audio
// device clock never stalls the worker thread that produces blocks.
func (s *Speaker) callback(out []int16) {
	select {
	case block := <-s.queue:
		n := copy(out, block)
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
	default:
		for i := range out {
			out[i] = 0
		}
	}
}

// Start begins playback.
func (s *Speaker) Start() error {
	return s.stream.Start()
}

// Stop halts playback.
func (s *Speaker) Stop() error {
	return s.stream.Stop()
}

// Close stops and releases the stream and the PortAudio runtime.
func (s *Speaker) Close() error {
	err := s.stream.Close()
	portaudio.Terminate()
	close(s.done)
	return err
}

// OnEvent implements pipeline.Sink, queuing AUDIO blocks for playback and
// ignoring every other event kind (SYNC/LOST_SYNC and the external
// pass-through variants have no audio role here).
func (s *Speaker) OnEvent(e pipeline.Event) {
	if e.Kind != pipeline.KindAudio {
		return
	}
	select {
	case s.queue <- e.Audio.Samples:
	default:
		// drop the block rather than block the worker thread; spec.md §5
		// forbids the worker from blocking on anything but the SDR read
		// and the condition-variable wait.
	}
}
