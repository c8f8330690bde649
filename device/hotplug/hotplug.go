// Package hotplug watches udev for SDR dongles appearing and disappearing,
// supplementing spec.md's device-driver boundary (SPEC_FULL.md §11): the
// original nrsc5 opens a device once at startup via SoapySDR's device
// enumeration; this adds the ability to notice a dongle being plugged in
// or unplugged while the receiver is idle, so a long-running fmscan process
// doesn't need to be restarted after a USB replug.
package hotplug

import (
	"context"

	"github.com/jochenvg/go-udev"
)

// Action is the kind of hotplug event observed.
type Action int

const (
	// Add reports a newly attached device.
	Add Action = iota
	// Remove reports a detached device.
	Remove
)

// Event is one hotplug occurrence for a USB device in the "usb" subsystem.
type Event struct {
	Action    Action
	DevPath   string
	DevNode   string
	VendorID  string
	ProductID string
}

// Watcher streams hotplug Events for USB devices, the subsystem carrying
// the rtlsdr/hackrf/sdrplay dongles device.Lookup's table names.
type Watcher struct {
	u *udev.Udev
}

// NewWatcher constructs a Watcher.
func NewWatcher() *Watcher {
	return &Watcher{u: &udev.Udev{}}
}

// Watch streams hotplug events until ctx is cancelled. The returned channel
// is closed when the underlying monitor exits.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, error) {
	monitor := w.u.NewMonitorFromNetlink("udev")
	if err := monitor.FilterAddMatchSubsystem("usb"); err != nil {
		return nil, err
	}

	deviceCh, err := monitor.DeviceChan(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		for dev := range deviceCh {
			action := Add
			if dev.Action() == "remove" {
				action = Remove
			}
			select {
			case out <- Event{
				Action:    action,
				DevPath:   dev.Syspath(),
				DevNode:   dev.Devnode(),
				VendorID:  dev.PropertyValue("ID_VENDOR_ID"),
				ProductID: dev.PropertyValue("ID_MODEL_ID"),
			}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
