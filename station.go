package main

import (
	"fmt"
	"time"

	"github.com/juju/loggo"
)

var stationLogger = loggo.GetLogger("station")

// stationPhase represents the current point in a station's shift
// lifecycle.
type stationPhase uint8

const (
	phaseAwaitingCard stationPhase = iota
	phaseAwaitingStartConfirm
	phaseScanning
	phaseAwaitingEndConfirm
)

func (p stationPhase) String() string {
	switch p {
	case phaseAwaitingCard:
		return "AWAITING_CARD"
	case phaseAwaitingStartConfirm:
		return "AWAITING_START_CONFIRM"
	case phaseScanning:
		return "SCANNING"
	case phaseAwaitingEndConfirm:
		return "AWAITING_END_CONFIRM"
	}
	return "UNKNOWN"
}

// outcomeKind classifies the result of presenting a tag or a signal to
// a station. Rejections are values, not errors; the operator panel
// maps each kind to its own message and beep pattern.
type outcomeKind uint8

const (
	outIgnored outcomeKind = iota
	outAccepted
	outDuplicate
	outStationInactive
	outWrongStation
	outQueueDropped
	outLoginPending
	outLoggedIn
	outLogoutPending
	outLoggedOut
	outCancelled
	outBusy
	outDefectPending
	outDefectSent
	outDefectSendFailed
	outMenu
)

func (k outcomeKind) String() string {
	switch k {
	case outIgnored:
		return "ignored"
	case outAccepted:
		return "accepted"
	case outDuplicate:
		return "duplicate"
	case outStationInactive:
		return "station-inactive"
	case outWrongStation:
		return "wrong-station"
	case outQueueDropped:
		return "queue-dropped"
	case outLoginPending:
		return "login-pending"
	case outLoggedIn:
		return "logged-in"
	case outLogoutPending:
		return "logout-pending"
	case outLoggedOut:
		return "logged-out"
	case outCancelled:
		return "cancelled"
	case outBusy:
		return "busy"
	case outDefectPending:
		return "defect-pending"
	case outDefectSent:
		return "defect-sent"
	case outDefectSendFailed:
		return "defect-send-failed"
	case outMenu:
		return "menu"
	}
	return "unknown"
}

// outcome is the structured event emitted for every admission decision
// and lifecycle transition. RedirectTo names the badge's assigned
// station on a wrong-station rejection.
type outcome struct {
	Kind       outcomeKind
	Station    int
	Employee   string
	UID        string
	ScanID     string
	RedirectTo int
	Lines      []string // menu frame rows, set only for outMenu
}

func (o outcome) String() string {
	s := fmt.Sprintf("station %d: %v", o.Station, o.Kind)
	if o.Employee != "" {
		s += " employee=" + o.Employee
	}
	if o.UID != "" {
		s += " uid=" + o.UID
	}
	if o.Kind == outWrongStation {
		s += fmt.Sprintf(" assigned=%d", o.RedirectTo)
	}
	return s
}

// badge identifies an employee card: who it belongs to and the single
// station it is bound to.
type badge struct {
	EmployeeID string `json:"employee"`
	Station    int    `json:"station"`
}

// badgeRegistry maps canonical UID strings to badges. Fixed at startup.
type badgeRegistry map[string]badge

// stationConfig is the per-station lookup entry consulted instead of
// branching on station number in every function: which reader index it
// uses and which behaviors it carries.
type stationConfig struct {
	Number      int  `json:"number"`
	Reader      int  `json:"reader"`
	Confirm     bool `json:"confirm"`     // login/logout need a button press
	Defect      bool `json:"defect"`      // product scans go through the defect walk
	SuppressDup bool `json:"suppressDup"` // consecutive-duplicate suppression
}

// station holds the mutable shift state for one physical reader. All
// mutation happens through the methods below, and only ever from the
// polling goroutine.
type station struct {
	cfg       stationConfig
	phase     stationPhase
	employee  string // logged-in employee, empty outside a shift
	pending   string // employee awaiting start confirmation
	lastUID   string // last accepted product UID, for duplicate suppression
	scanCount int
	deadline  time.Time // confirmation deadline, zero when none pending
	walk      *defectWalk
}

func newStation(cfg stationConfig) *station {
	return &station{cfg: cfg, phase: phaseAwaitingCard}
}

func (s *station) active() bool {
	return s.phase == phaseScanning || s.phase == phaseAwaitingEndConfirm
}

// presentBadge drives the lifecycle with an employee card. A badge
// bound to another station, or another employee's badge during an open
// shift, never alters state.
func (s *station) presentBadge(b badge, now time.Time, timeout time.Duration) outcome {
	if b.Station != s.cfg.Number {
		return outcome{Kind: outWrongStation, Station: s.cfg.Number, Employee: b.EmployeeID, RedirectTo: b.Station}
	}
	switch s.phase {
	case phaseAwaitingCard:
		if !s.cfg.Confirm {
			s.phase = phaseScanning
			s.employee = b.EmployeeID
			s.lastUID = ""
			stationLogger.Infof("station %d state %v (%s)", s.cfg.Number, s.phase, s.employee)
			return outcome{Kind: outLoggedIn, Station: s.cfg.Number, Employee: b.EmployeeID}
		}
		s.phase = phaseAwaitingStartConfirm
		s.pending = b.EmployeeID
		s.deadline = now.Add(timeout)
		stationLogger.Infof("station %d state %v (%s)", s.cfg.Number, s.phase, s.pending)
		return outcome{Kind: outLoginPending, Station: s.cfg.Number, Employee: b.EmployeeID}
	case phaseScanning:
		if b.EmployeeID != s.employee {
			return outcome{Kind: outBusy, Station: s.cfg.Number, Employee: b.EmployeeID}
		}
		if !s.cfg.Confirm {
			return s.endShift()
		}
		s.phase = phaseAwaitingEndConfirm
		s.deadline = now.Add(timeout)
		stationLogger.Infof("station %d state %v (%s)", s.cfg.Number, s.phase, s.employee)
		return outcome{Kind: outLogoutPending, Station: s.cfg.Number, Employee: s.employee}
	}
	// A confirmation is already pending; the card does nothing more.
	return outcome{Kind: outIgnored, Station: s.cfg.Number, Employee: b.EmployeeID}
}

// confirmSignal resolves a pending start or end confirmation.
func (s *station) confirmSignal() outcome {
	switch s.phase {
	case phaseAwaitingStartConfirm:
		s.phase = phaseScanning
		s.employee = s.pending
		s.pending = ""
		s.lastUID = ""
		s.deadline = time.Time{}
		stationLogger.Infof("station %d state %v (%s)", s.cfg.Number, s.phase, s.employee)
		return outcome{Kind: outLoggedIn, Station: s.cfg.Number, Employee: s.employee}
	case phaseAwaitingEndConfirm:
		return s.endShift()
	}
	return outcome{Kind: outIgnored, Station: s.cfg.Number}
}

// cancelSignal reverts a pending confirmation; a timeout is routed
// through the same path so both leave identical state.
func (s *station) cancelSignal() outcome {
	switch s.phase {
	case phaseAwaitingStartConfirm:
		e := s.pending
		s.phase = phaseAwaitingCard
		s.pending = ""
		s.deadline = time.Time{}
		stationLogger.Infof("station %d state %v", s.cfg.Number, s.phase)
		return outcome{Kind: outCancelled, Station: s.cfg.Number, Employee: e}
	case phaseAwaitingEndConfirm:
		s.phase = phaseScanning
		s.deadline = time.Time{}
		stationLogger.Infof("station %d state %v (%s)", s.cfg.Number, s.phase, s.employee)
		return outcome{Kind: outCancelled, Station: s.cfg.Number, Employee: s.employee}
	}
	return outcome{Kind: outIgnored, Station: s.cfg.Number}
}

// expire checks the confirmation deadline and, on the defect station,
// the walk deadline. Expiry behaves exactly like a cancel.
func (s *station) expire(now time.Time) (outcome, bool) {
	if s.walk != nil && s.walk.expired(now) {
		s.walk = nil
		stationLogger.Infof("station %d defect selection timed out", s.cfg.Number)
		return outcome{Kind: outCancelled, Station: s.cfg.Number, Employee: s.employee}, true
	}
	if !s.deadline.IsZero() && now.After(s.deadline) {
		stationLogger.Infof("station %d confirmation timed out", s.cfg.Number)
		return s.cancelSignal(), true
	}
	return outcome{}, false
}

func (s *station) endShift() outcome {
	e := s.employee
	s.phase = phaseAwaitingCard
	s.employee = ""
	s.pending = ""
	s.lastUID = ""
	s.deadline = time.Time{}
	s.walk = nil
	stationLogger.Infof("station %d state %v", s.cfg.Number, s.phase)
	return outcome{Kind: outLoggedOut, Station: s.cfg.Number, Employee: e}
}

// duplicate reports whether uid repeats the last accepted product scan,
// on stations where the suppression rule applies.
func (s *station) duplicate(uid string) bool {
	return s.cfg.SuppressDup && s.lastUID != "" && s.lastUID == uid
}

// accepted records a successful product scan.
func (s *station) accepted(uid string) {
	s.lastUID = uid
	s.scanCount++
}
