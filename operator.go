package main

import (
	"fmt"
	"time"

	"github.com/juju/loggo"
)

var opLogger = loggo.GetLogger("operator")

// Operator-facing I/O. The core consumes button presses as opaque
// signals and pushes outcome events out; rendering and debouncing live
// with the hardware collaborators.

type signalKind uint8

const (
	sigConfirm signalKind = iota
	sigCancel
	sigNavUp
	sigNavDown
)

func (k signalKind) String() string {
	switch k {
	case sigConfirm:
		return "confirm"
	case sigCancel:
		return "cancel"
	case sigNavUp:
		return "nav-up"
	case sigNavDown:
		return "nav-down"
	}
	return "unknown"
}

// opSignal is one debounced button press, addressed to a station. The
// nav buttons are shared by the whole terminal and carry the station of
// the active defect walk.
type opSignal struct {
	Kind    signalKind
	Station int
}

// operatorPanel is the sink for operator feedback: the per-station
// character display and the buzzer.
type operatorPanel interface {
	ShowMessage(station int, lines ...string)
	Beep(d time.Duration)
}

const beepPulse = 100 * time.Millisecond

// renderOutcome maps every outcome kind to a distinct message, and to
// a single beep (accepted/lifecycle) or a double beep (rejections).
func renderOutcome(p operatorPanel, o outcome) {
	switch o.Kind {
	case outAccepted:
		p.ShowMessage(o.Station, "Scan OK", o.ScanID)
		p.Beep(beepPulse)
	case outDuplicate:
		p.ShowMessage(o.Station, "Duplicate scan", o.UID)
		doubleBeep(p)
	case outStationInactive:
		p.ShowMessage(o.Station, "Station inactive", "Scan badge first")
		doubleBeep(p)
	case outWrongStation:
		p.ShowMessage(o.Station, "Wrong station", fmt.Sprintf("Go to station %d", o.RedirectTo))
		doubleBeep(p)
	case outQueueDropped:
		p.ShowMessage(o.Station, "Scan dropped", "Buffer full")
		doubleBeep(p)
	case outLoginPending:
		p.ShowMessage(o.Station, "Start shift?", o.Employee, "Confirm / Cancel")
		p.Beep(beepPulse)
	case outLoggedIn:
		p.ShowMessage(o.Station, "Shift started", o.Employee)
		p.Beep(beepPulse)
	case outLogoutPending:
		p.ShowMessage(o.Station, "End shift?", o.Employee, "Confirm / Cancel")
		p.Beep(beepPulse)
	case outLoggedOut:
		p.ShowMessage(o.Station, "Shift ended", o.Employee)
		p.Beep(beepPulse)
	case outCancelled:
		p.ShowMessage(o.Station, "Cancelled")
		p.Beep(beepPulse)
	case outBusy:
		p.ShowMessage(o.Station, "Station busy", "Another shift is open")
		doubleBeep(p)
	case outDefectPending:
		p.ShowMessage(o.Station, "Classify defect", o.UID)
		p.Beep(beepPulse)
	case outDefectSent:
		p.ShowMessage(o.Station, "Defect logged", o.ScanID)
		p.Beep(beepPulse)
	case outDefectSendFailed:
		p.ShowMessage(o.Station, "Defect NOT sent", "Collector offline")
		doubleBeep(p)
	case outMenu:
		p.ShowMessage(o.Station, o.Lines...)
	}
}

func doubleBeep(p operatorPanel) {
	p.Beep(beepPulse)
	p.Beep(beepPulse)
}

// runPanel drains outcome events to the panel. Meant to be run in its
// own goroutine so slow display I/O never stalls the polling loop.
func runPanel(events <-chan outcome, p operatorPanel) {
	for o := range events {
		renderOutcome(p, o)
	}
}

// logPanel is the default panel when no display hardware is attached;
// it renders to the logger.
type logPanel struct{}

func (logPanel) ShowMessage(station int, lines ...string) {
	opLogger.Infof("station %d display: %v", station, lines)
}

func (logPanel) Beep(d time.Duration) {}
