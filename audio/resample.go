package audio

// Resampler is the opaque fractional-rational resampler spec.md §6 treats
// as an external collaborator: "opaque init(num, den, quality, Fs_in,
// Fs_out, channels)" and "process_int(channel, in, &in_len, out, &out_len)".
// Only this interface is specified; the concrete implementation below is
// the minimum needed to satisfy it (see DESIGN.md's stdlib justification —
// no pack library exposes this exact single-sample-in/zero-or-one-sample-out
// contract, and spec.md itself frames the resampler as out of scope).
type Resampler interface {
	// Process consumes one input sample and returns an output sample and
	// true if one was produced this call, or (0, false) if not (the
	// resampler may consume several inputs before producing an output, or
	// occasionally produce none, depending on the rational ratio).
	Process(in int16) (out int16, ok bool)
}

// RationalResampler is a linear-interpolation resampler driven by a
// num/den ratio, the concrete instantiation of Resampler the audio
// post-chain uses with (1, 135, 128, 46512, 44100, 1) per spec.md §6.
type RationalResampler struct {
	ratio float64 // outRate / inRate
	phase float64
	have  bool
	prev  int16
}

// NewRationalResampler mirrors the opaque init(num, den, quality, inRate,
// outRate, channels) contract of spec.md §6. num/den and quality are
// accepted for interface fidelity but do not change the resampling
// algorithm, which is driven purely by inRate/outRate.
func NewRationalResampler(num, den, quality int, inRate, outRate, channels float64) *RationalResampler {
	return &RationalResampler{ratio: outRate / inRate}
}

// Process implements Resampler via linear interpolation between
// consecutive input samples at the fractional output instant.
func (r *RationalResampler) Process(in int16) (int16, bool) {
	if !r.have {
		r.prev = in
		r.have = true
		return 0, false
	}

	r.phase += r.ratio
	if r.phase < 1 {
		r.prev = in
		return 0, false
	}

	frac := r.phase - 1
	r.phase -= 1
	out := float64(r.prev) + frac*(float64(in)-float64(r.prev))
	r.prev = in
	return int16(out), true
}
