package device

import (
	"encoding/binary"
	"errors"
	"io"
	"time"

	"hz.tools/fmradio/iq"
)

// IQFile is the file/stdin IQ source of spec.md §6 ("IQ file input: raw
// interleaved int16 I, Q little-endian"), grounded on nrsc5_open_iq: fixed
// decimation of 2, offset tuning disabled, no gain/frequency/bandwidth
// control since there is no physical tuner behind the file.
type IQFile struct {
	r io.Reader
}

// NewIQFile wraps r (a file opened by the caller, or os.Stdin for "-" per
// nrsc5_open_iq's strcmp(path, "-") check) as a Driver.
func NewIQFile(r io.Reader) *IQFile {
	return &IQFile{r: r}
}

// Decimation is always 2 for file sources, matching nrsc5_open_iq's
// "st->decimation = 2".
func (f *IQFile) Decimation() int { return 2 }

// OffsetTuning is always disabled for file sources, matching
// nrsc5_open_iq's "input_set_offset_tuning(&st->input, 0)".
func (f *IQFile) OffsetTuning() bool { return false }

func (f *IQFile) SetSampleRate(float64) error { return nil }
func (f *IQFile) SetBandwidth(float64) error  { return nil }
func (f *IQFile) SetGainMode(bool) error      { return nil }
func (f *IQFile) SetGain(float64) error       { return nil }
func (f *IQFile) GainRange() (float64, float64) { return 0, 0 }
func (f *IQFile) SetFrequency(float64) error  { return nil }
func (f *IQFile) SetupStream(string) error    { return nil }
func (f *IQFile) Activate() error             { return nil }
func (f *IQFile) Deactivate() error           { return nil }

// Read fills buf with raw little-endian int16 I/Q pairs, per
// do_work's "fread(st->buffer, sizeof(cint16_t), RX_BUFFER * st->decimation,
// st->iq_file)". At end of file it returns (0, io.EOF); the original instead
// sleeps a second and retries (do_work: "else sleep(1)") — callers that want
// that behavior should loop on io.EOF themselves.
func (f *IQFile) Read(buf []iq.Sample, _ time.Duration) (int, error) {
	raw := make([]byte, 4*len(buf))
	n, err := io.ReadFull(f.r, raw)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, err
	}
	count := n / 4
	for i := 0; i < count; i++ {
		buf[i] = iq.Sample{
			I: int16(binary.LittleEndian.Uint16(raw[i*4:])),
			Q: int16(binary.LittleEndian.Uint16(raw[i*4+2:])),
		}
	}
	return count, nil
}
