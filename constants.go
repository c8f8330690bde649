package fmradio

// SampleRate is Fi, the canonical intermediate sample rate (spec.md §3):
// after device-specific decimation and one extra halfband stage, every
// downstream block assumes this rate. Reproduced from
// original_source/src/fm_audio.c's filter-design comment
// ("Sample rate: 1488375").
const SampleRate = 1488375

// MaxDecimLog2 bounds the IQ decimation cascade (spec.md §3: "ordered list
// of halfband filters of length log2(decimation)"); decimation is one of
// {2,4,8,16} so log2(decimation) is at most 4.
const MaxDecimLog2 = 4

// FreqOffsetFactor and FreqOffset govern the offset-tuning phasor (spec.md
// §6): the tuner is actually centered FreqOffset Hz away from the requested
// frequency so the IQ DC spike lands outside the channel of interest, and
// the decimation cascade mixes it back. FreqOffsetFactor divides
// SampleRate*2 to give the length of the periodic-refresh window used to
// bound phase-accumulation error (spec.md §4.5 step 3): SampleRate samples,
// which hold a whole number (18750) of offset-phasor cycles.
const (
	FreqOffset       = 37500
	FreqOffsetFactor = 2
)

// MaxDeviationHz is the FM broadcast deviation the PLL discriminator's
// frequency clamp is built around (spec.md §3: "freq in [-fmax, +fmax]
// where fmax = 2*pi*90000/(Fi/2)").
const MaxDeviationHz = 90000
