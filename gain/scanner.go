package gain

import "hz.tools/fmradio"

// Scan band, reproduced from the real nrsc5 project's public header (not
// present in the retrieved original_source/ pack, which only carries
// implementation files): the US FM broadcast band, 200kHz channel spacing.
const (
	ScanBegin = 87_900_000.0
	ScanEnd   = 107_900_000.0
	ScanSkip  = 200_000.0
)

// Worker is the surface the scanner drives directly: frequency control and
// one do_work-equivalent tick that pumps buffered samples through the full
// decode pipeline, advancing whatever sample accounting the caller tracks.
// pipeline.Worker does not implement it; cmd/fmscan's scanPump does.
type Worker interface {
	SetFrequency(freq float64) error
	// DoWork pumps one block of buffered samples through the pipeline and
	// returns how many samples were consumed.
	DoWork() (int, error)
}

// Decoder reports the out-of-scope digital HD Radio decoder's acquisition
// state (spec.md: "digital HD Radio ... subsystem" is an external
// collaborator). The scanner only observes Synced/Name; it never decodes
// digital sidebands itself.
type Decoder interface {
	Reset()
	Synced() bool
	Name() string
}

// sweeper is the subset of *AutoGain the scanner drives: a gain sweep that
// reports the best SNR found. Factored out as an interface so Scan's
// frequency-walk/decoder-gate control flow is testable without a live
// device or decimation cascade behind it.
type sweeper interface {
	Sweep(step float64) (snr float64, err error)
}

// Scanner sweeps a frequency range looking for stations, per
// original_source/src/nrsc5.c's nrsc5_scan.
type Scanner struct {
	worker     Worker
	auto       sweeper
	decimation int
}

// NewScanner builds a Scanner driving worker for frequency/sample-pump
// control and auto for gain sweeps, at the given device decimation factor
// (used to scale the 30s/10s sample budgets to device-rate sample counts).
func NewScanner(worker Worker, auto *AutoGain, decimation int) *Scanner {
	return &Scanner{worker: worker, auto: auto, decimation: decimation}
}

// Result is one located station.
type Result struct {
	Frequency float64
	Name      string
	SNR       float64
}

// Scan sweeps [begin, end] in skip increments, running a coarse then fine
// AutoGain pass at each frequency and keeping only stations with
// SNR >= ScanMinSNR that achieve digital sync within 10s of samples,
// capturing the station name within a 30s budget. It returns the first
// station found and the frequency to resume scanning from on the next
// call, mirroring nrsc5_scan's single-station-per-call contract (spec.md
// §4.8's "Scan result list ... appended as the scanner locks on stations").
func (s *Scanner) Scan(begin, end, skip float64, decoder Decoder) (result Result, found bool, next float64, err error) {
	for freq := begin; freq <= end; freq += skip {
		next = freq + skip

		if err := s.worker.SetFrequency(freq); err != nil {
			continue
		}

		snrRatio, err := s.auto.Sweep(ScanAutoGainStep)
		if err != nil {
			return Result{}, false, next, err
		}
		if snrRatio == 0 {
			continue
		}

		snrRatio, err = s.auto.Sweep(AutoGainStep * 2)
		if err != nil {
			return Result{}, false, next, err
		}
		if snrRatio < ScanMinSNR {
			continue
		}

		decoder.Reset()
		samples := 0
		budget := int(fmradio.SampleRate) * s.decimation * 30
		giveUpAt := int(fmradio.SampleRate) * s.decimation * 10

		for samples < budget {
			n, err := s.worker.DoWork()
			if err != nil {
				return Result{}, false, next, err
			}
			samples += n

			if !decoder.Synced() && samples >= giveUpAt {
				break
			}
			if decoder.Name() != "" {
				break
			}
		}

		if !decoder.Synced() {
			continue
		}

		return Result{Frequency: freq, Name: decoder.Name(), SNR: snrRatio}, true, next, nil
	}
	return Result{}, false, next, nil
}
