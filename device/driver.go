// Package device defines the SDR device capability set spec.md §6 treats
// as an external collaborator, plus the supported-driver lookup table and
// the IQ-file source used when no physical device is present. Grounded on
// original_source/src/nrsc5.c's supported_drivers[]/find_supported_driver
// and nrsc5_open/nrsc5_open_iq.
package device

import (
	"fmt"
	"strings"
	"time"

	"hz.tools/fmradio/iq"
)

// Driver is the capability set spec.md §6 names: "{ set_sample_rate(Hz),
// set_bandwidth(Hz), set_gain_mode(auto=false), set_gain(dB),
// set_frequency(Hz+FREQ_OFFSET), setup_stream(fmt="CS16"), activate,
// deactivate, read(buf, max_samples, timeout) -> count }".
type Driver interface {
	SetSampleRate(hz float64) error
	SetBandwidth(hz float64) error
	SetGainMode(auto bool) error
	SetGain(db float64) error
	GainRange() (min, max float64)
	SetFrequency(hz float64) error
	SetupStream(format string) error
	Activate() error
	Deactivate() error
	Read(buf []iq.Sample, timeout time.Duration) (int, error)
}

// Profile is one row of the supported-driver table: the sample rate to
// request and the cascade decimation factor that sample rate implies at
// the canonical intermediate rate.
type Profile struct {
	SampleRate float64
	Decimation int
}

// supportedDrivers is the static data table spec.md §9's design note calls
// for ("Global supported-driver table → static data table owned by the
// driver-integration module"), reproduced from nrsc5.c's supported_drivers[]
// with SAMPLE_RATE substituted for fmradio.SampleRate.
var supportedDrivers = map[string]Profile{
	"rtlsdr":  {SampleRate: 2 * 1488375, Decimation: 2},
	"hackrf":  {SampleRate: 8 * 1488375, Decimation: 8},
	"sdrplay": {SampleRate: 4 * 1488375, Decimation: 4},
}

// Lookup is the pure function spec.md §9 asks for: "lookup(driver) ->
// (sample_rate, decimation)". Matching is case-insensitive, per
// find_supported_driver's strcasecmp.
func Lookup(driver string) (Profile, error) {
	p, ok := supportedDrivers[strings.ToLower(driver)]
	if !ok {
		return Profile{}, fmt.Errorf("device: unsupported driver %q", driver)
	}
	return p, nil
}
