// Package indicator drives a GPIO lock-status LED from SYNC/LOST_SYNC
// events, supplementing spec.md's event union with a physical-indicator
// consumer (SPEC_FULL.md §11). Grounded on spec.md §6's "SYNC, LOST_SYNC
// are produced by this core".
package indicator

import (
	"github.com/warthog618/go-gpiocdev"

	"hz.tools/fmradio/pipeline"
)

// LED is a pipeline.Sink that drives one GPIO line high while the digital
// decoder reports SYNC, and low again on LOST_SYNC.
type LED struct {
	line *gpiocdev.Line
}

// NewLED requests offset as an output line on chip (e.g. "gpiochip0"),
// initially low.
func NewLED(chip string, offset int) (*LED, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, err
	}
	return &LED{line: line}, nil
}

// Close releases the GPIO line.
func (l *LED) Close() error {
	return l.line.Close()
}

// OnEvent implements pipeline.Sink.
func (l *LED) OnEvent(e pipeline.Event) {
	switch e.Kind {
	case pipeline.KindSync:
		l.line.SetValue(1)
	case pipeline.KindLostSync:
		l.line.SetValue(0)
	}
}
