// Command fmscan is the scan-tool CLI of spec.md §6, ported from
// original_source/src/scan.c. It opens a device (or, in the absence of a
// bound hardware SoapySDR driver in this module, an IQ file given via -d),
// sweeps the FM broadcast band, and prints each station found. Unlike
// pipeline.Worker (which runs the streaming worker-thread state machine for
// an interactive receiver), nrsc5_scan drives its reads synchronously on
// the calling goroutine, so fmscan builds its own small pump instead of
// going through pipeline.Worker.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"

	"hz.tools/fmradio/decimate"
	"hz.tools/fmradio/device"
	"hz.tools/fmradio/gain"
	"hz.tools/fmradio/iq"
	"hz.tools/fmradio/pipeline"
	"hz.tools/fmradio/snr"
)

var gitCommitHash = "unknown"

func help(progname string) {
	fmt.Fprintf(os.Stderr, "Usage: %s [-v] [-q] [-l log-level] [-d device-args]\n", progname)
}

// nullDecoder stands in for the out-of-scope digital HD Radio decoder
// (spec.md §2 lists it as an external collaborator with no implementation
// here); it never reports sync, so a scan always falls through to the 10s
// give-up path. A build wired to a real digital decoder would supply its
// own gain.Decoder here instead.
type nullDecoder struct{}

func (nullDecoder) Reset()       {}
func (nullDecoder) Synced() bool { return false }
func (nullDecoder) Name() string { return "" }

// driverSource adapts a device.Driver to gain.Source, mirroring
// pipeline.driverSource (unexported there, so fmscan — which drives
// AutoGain directly rather than through a pipeline.Worker — needs its own).
type driverSource struct {
	driver     device.Driver
	decimation int
}

func (s driverSource) SetGain(g float64) error      { return s.driver.SetGain(g) }
func (s driverSource) GainRange() (float64, float64) { return s.driver.GainRange() }
func (s driverSource) Decimation() int               { return s.decimation }
func (s driverSource) ReadIQ(buf []iq.Sample) (int, error) {
	return s.driver.Read(buf, 5*time.Second)
}

// scanPump is the synchronous read-decode loop nrsc5_scan drives directly
// (do_work), sharing its decimation cascade with the AutoGain sweeps that
// precede it at each frequency, per nrsc5.c's single shared st->input.
type scanPump struct {
	driver  device.Driver
	cascade *decimate.Cascade
	fmPath  *pipeline.FMPath
	buf     []iq.Sample
}

func (p *scanPump) SetFrequency(hz float64) error {
	return p.driver.SetFrequency(hz)
}

func (p *scanPump) DoWork() (int, error) {
	n, err := p.driver.Read(p.buf, 5*time.Second)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	decimated := p.cascade.Process(p.buf[:n])
	p.fmPath.Process(decimated, func([]int16) {})
	return n, nil
}

func main() {
	var (
		deviceArgs = pflag.StringP("device-args", "d", "", "device arguments or IQ file path")
		quiet      = pflag.BoolP("quiet", "q", false, "suppress non-error output")
		level      = pflag.IntP("log-level", "l", 3, "log level (0=debug .. 5=fatal)")
		version    = pflag.BoolP("version", "v", false, "print version and exit")
	)
	pflag.Parse()

	if *version {
		fmt.Printf("fmscan revision %s\n", gitCommitHash)
		os.Exit(1)
	}
	if pflag.NArg() != 0 {
		help(os.Args[0])
		os.Exit(1)
	}

	logger := log.New(os.Stderr)
	if *quiet {
		logger.SetLevel(log.ErrorLevel)
	} else {
		logger.SetLevel(log.Level(*level))
	}

	if *deviceArgs == "" {
		logger.Fatal("no device args given; pass an IQ file path via -d")
	}

	f, err := os.Open(*deviceArgs)
	if err != nil {
		logger.Error("open device failed", "err", err)
		os.Exit(1)
	}
	defer f.Close()

	driver := device.NewIQFile(f)
	decimation := driver.Decimation()

	cascade, err := decimate.New(decimation)
	if err != nil {
		logger.Error("unsupported decimation", "err", err)
		os.Exit(1)
	}
	cascade.SetOffsetTuning(driver.OffsetTuning())

	estimator, err := snr.New()
	if err != nil {
		logger.Error("failed to build SNR estimator", "err", err)
		os.Exit(1)
	}

	auto := gain.NewAutoGain(driverSource{driver: driver, decimation: decimation}, cascade, estimator)
	pump := &scanPump{
		driver:  driver,
		cascade: cascade,
		fmPath:  pipeline.NewFMPath(),
		buf:     make([]iq.Sample, 65536*decimation),
	}
	scanner := gain.NewScanner(pump, auto, decimation)

	logFormatter, err := strftime.New("station-log-%Y%m%d-%H%M%S.txt")
	if err != nil {
		logger.Fatal("invalid log filename pattern", "err", err)
	}
	logPath := logFormatter.FormatString(time.Now())
	logger.Info("discovered stations will be appended to", "path", logPath)

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Error("failed to open station log", "err", err)
		os.Exit(1)
	}
	defer logFile.Close()

	freq := gain.ScanBegin
	for {
		result, found, next, err := scanner.Scan(freq, gain.ScanEnd, gain.ScanSkip, nullDecoder{})
		if err != nil {
			logger.Error("scan failed", "err", err)
			os.Exit(1)
		}
		if !found {
			break
		}
		fmt.Printf("%.0f\t%s\n", result.Frequency, result.Name)
		fmt.Fprintf(logFile, "%.0f\t%s\t%.2f\n", result.Frequency, result.Name, result.SNR)
		freq = next
	}

	os.Exit(0)
}
