// Package iq defines the fixed-point complex sample type the pipeline's hot
// path operates on, and its interop with hz.tools/sdr's complex64 streams.
package iq

import "hz.tools/sdr"

// Sample is a signed 16-bit I/Q pair, the native format the SDR drivers in
// spec.md §6 deliver ("setup_stream(fmt=\"CS16\")") and the format the
// decimation cascade passes between its stages and the intermediate ring
// holds. Filters and the FM discriminator convert to floating point
// internally (float32 in the halfbands, complex128 in the PLL).
type Sample struct {
	I, Q int16
}

// Halve implements the entry-point amplitude reduction of spec.md §3 ("The
// pipeline halves amplitude on entry to avoid arithmetic clip across
// downstream stages"): none of the supported drivers exceed 14-bit
// resolution, so this never loses information.
func (s Sample) Halve() Sample {
	return Sample{I: s.I / 2, Q: s.Q / 2}
}

// Conj returns the complex conjugate, used when copying into the
// intermediate ring (spec.md §4.5 step 4: "conjugate (q <- -q)").
func (s Sample) Conj() Sample {
	return Sample{I: s.I, Q: -s.Q}
}

// Complex128 converts to a floating-point complex for use in the FM
// discriminator's atan2/phase math.
func (s Sample) Complex128() complex128 {
	return complex(float64(s.I), float64(s.Q))
}

// FromComplex64 quantizes a complex64 sample (the hz.tools/sdr.SamplesC64
// convention) back to the fixed-point Sample the cascade operates on. Used
// by the scenario tests to turn legacy.Modulator output into Samples.
func FromComplex64(c complex64) Sample {
	return Sample{I: int16(real(c) * 32767), Q: int16(imag(c) * 32767)}
}

// ToComplex64 widens a Sample to the complex64 convention
// hz.tools/sdr.SamplesC64 uses, for callers that want to compose with the
// wider hz.tools/sdr stream ecosystem.
func ToComplex64(s Sample) complex64 {
	return complex64(complex(float32(s.I)/32767, float32(s.Q)/32767))
}

// Buffer is a slice of Sample, mirroring sdr.SamplesC64's role for our
// fixed-point representation.
type Buffer []Sample

// ToSamplesC64 converts a Buffer to sdr.SamplesC64 for interop with
// hz.tools/sdr consumers (e.g. a digital-sideband decoder reading the IQ
// passthrough event).
func (b Buffer) ToSamplesC64() sdr.SamplesC64 {
	out := make(sdr.SamplesC64, len(b))
	for i, s := range b {
		out[i] = ToComplex64(s)
	}
	return out
}
