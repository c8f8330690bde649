// Package fmradio implements an FM-broadcast software-defined-radio
// receiver: the baseband-to-audio signal-processing pipeline described in
// spec.md, from polyphase IQ decimation through PLL FM demodulation, the
// audio post-chain, and the SNR-driven gain/scan controller.
//
// The device driver, the rational resampler's internal DSP, the digital
// HD-Radio sideband decoder, and any HTTP/Ogg streaming surface are treated
// as external collaborators and are out of scope for this module; see
// spec.md §1.
package fmradio
