package main

import (
	"time"

	"github.com/juju/loggo"
)

var pipeLogger = loggo.GetLogger("pipeline")

// pipeline decides what happens to every freshly read tag: badges go to
// the station state machine, product tags are admitted to the queue (or
// to the defect walk on the defect station). It owns all station state
// and is driven exclusively from the polling goroutine; the queue is
// the only thing it shares with the delivery goroutine.
type pipeline struct {
	stations map[int]*station
	registry badgeRegistry
	queue    *scanQueue
	ids      *scanIDGen
	sids     stationIDTable
	clock    clockSource
	tx       transport
	tax      *taxonomyStore
	events   chan<- outcome

	confirmTimeout time.Duration
	walkTimeout    time.Duration
}

func newPipeline(table []stationConfig, registry badgeRegistry, queue *scanQueue,
	sids stationIDTable, clock clockSource, tx transport, tax *taxonomyStore,
	events chan<- outcome, confirmTimeout, walkTimeout time.Duration) *pipeline {

	stations := make(map[int]*station, len(table))
	for _, sc := range table {
		stations[sc.Number] = newStation(sc)
	}
	return &pipeline{
		stations:       stations,
		registry:       registry,
		queue:          queue,
		ids:            &scanIDGen{},
		sids:           sids,
		clock:          clock,
		tx:             tx,
		tax:            tax,
		events:         events,
		confirmTimeout: confirmTimeout,
		walkTimeout:    walkTimeout,
	}
}

// admit routes one freshly read tag. Every path ends in exactly one
// emitted outcome; rejections never mutate state.
func (p *pipeline) admit(stationNo int, uid []byte, now time.Time) outcome {
	canonical, err := encodeUID(uid)
	if err != nil {
		pipeLogger.Warningf("station %d: unreadable tag: %v", stationNo, err)
		return p.emit(outcome{Kind: outIgnored, Station: stationNo})
	}
	st, ok := p.stations[stationNo]
	if !ok {
		pipeLogger.Warningf("tag from unconfigured station %d ignored", stationNo)
		return p.emit(outcome{Kind: outIgnored, Station: stationNo, UID: canonical})
	}

	if b, isBadge := p.registry[canonical]; isBadge {
		if st.walk != nil {
			// The defect menu is modal; badges wait their turn.
			return p.emit(outcome{Kind: outIgnored, Station: stationNo, Employee: b.EmployeeID})
		}
		return p.emit(st.presentBadge(b, now, p.confirmTimeout))
	}

	o := p.emit(p.admitProduct(st, canonical, uid, now))
	if o.Kind == outDefectPending {
		p.emitMenu(st)
	}
	return o
}

func (p *pipeline) admitProduct(st *station, canonical string, uid []byte, now time.Time) outcome {
	no := st.cfg.Number
	if st.walk != nil {
		return outcome{Kind: outIgnored, Station: no, UID: canonical}
	}
	if st.phase != phaseScanning {
		return outcome{Kind: outStationInactive, Station: no, UID: canonical}
	}
	if st.duplicate(canonical) {
		mtr.Duplicates.Inc(1)
		return outcome{Kind: outDuplicate, Station: no, Employee: st.employee, UID: canonical}
	}

	if st.cfg.Defect {
		// Classification first; nothing is queued or sent until the
		// walk completes.
		st.walk = newDefectWalk(p.tax.Current(), canonical, now, p.walkTimeout)
		return outcome{Kind: outDefectPending, Station: no, Employee: st.employee, UID: canonical}
	}

	rec := newScanRecord(no, uid,
		p.ids.NextScanID(p.clock.LocalDate()),
		p.sids.id(no),
		p.clock.EpochSeconds())

	if !p.enqueueEvicting(rec) {
		mtr.ScansDropped.Inc(1)
		return outcome{Kind: outQueueDropped, Station: no, Employee: st.employee, UID: canonical, ScanID: rec.ScanID}
	}
	st.accepted(canonical)
	mtr.ScansAccepted.Inc(1)
	return outcome{Kind: outAccepted, Station: no, Employee: st.employee, UID: canonical, ScanID: rec.ScanID}
}

// enqueueEvicting implements the overflow policy: when full, evict the
// single oldest record and retry exactly once, preferring newest scans
// under sustained overload. Memory stays strictly O(N).
func (p *pipeline) enqueueEvicting(rec scanRecord) bool {
	if p.queue.TryEnqueue(rec) {
		return true
	}
	if old, ok := p.queue.TryDequeue(); ok {
		pipeLogger.Warningf("queue full, evicting oldest scan %v", old.ScanID)
		mtr.ScansEvicted.Inc(1)
	}
	return p.queue.TryEnqueue(rec)
}

// signal feeds one operator button press in. An active defect walk
// captures all four buttons for its station; otherwise confirm/cancel
// drive the shift confirmations and the nav buttons do nothing.
func (p *pipeline) signal(sig opSignal, now time.Time) outcome {
	st, ok := p.stations[sig.Station]
	if !ok {
		return p.emit(outcome{Kind: outIgnored, Station: sig.Station})
	}
	if st.walk != nil {
		return p.emit(p.walkSignal(st, sig, now))
	}
	switch sig.Kind {
	case sigConfirm:
		return p.emit(st.confirmSignal())
	case sigCancel:
		return p.emit(st.cancelSignal())
	}
	return p.emit(outcome{Kind: outIgnored, Station: sig.Station})
}

func (p *pipeline) walkSignal(st *station, sig opSignal, now time.Time) outcome {
	no := st.cfg.Number
	w := st.walk
	switch sig.Kind {
	case sigNavUp:
		w.navUp()
		return p.menuFrame(no, w)
	case sigNavDown:
		w.navDown()
		return p.menuFrame(no, w)
	case sigCancel:
		if w.cancel() {
			st.walk = nil
			return outcome{Kind: outCancelled, Station: no, Employee: st.employee, UID: w.uid}
		}
		return p.menuFrame(no, w)
	case sigConfirm:
		done, section, typ, subtype := w.confirm()
		if !done {
			return p.menuFrame(no, w)
		}
		st.walk = nil
		return p.sendDefect(st, w.uid, section, typ, subtype)
	}
	return outcome{Kind: outIgnored, Station: no}
}

// sendDefect ships a confirmed classification synchronously, bypassing
// the queue. A failed send is reported and not retried; the operator
// rescans the piece if it mattered.
func (p *pipeline) sendDefect(st *station, uid string, section, typ, subtype int) outcome {
	no := st.cfg.Number
	scanID := p.ids.NextScanID(p.clock.LocalDate())
	msg := defectMsg{
		Action: actionDefect,
		Data: defectPayload{
			ID:        scanID,
			Section:   section,
			Type:      typ,
			Subtype:   subtype,
			TagUID:    uid,
			StationID: p.sids.id(no),
			TimeStamp: p.clock.EpochSeconds(),
		},
	}
	if !p.tx.Send(msg) {
		mtr.DefectSendFailures.Inc(1)
		pipeLogger.Warningf("station %d: defect %d/%d/%d for %v not sent, collector offline",
			no, section, typ, subtype, uid)
		return outcome{Kind: outDefectSendFailed, Station: no, Employee: st.employee, UID: uid, ScanID: scanID}
	}
	st.accepted(uid)
	mtr.DefectsSent.Inc(1)
	return outcome{Kind: outDefectSent, Station: no, Employee: st.employee, UID: uid, ScanID: scanID}
}

// tick expires pending confirmation and walk deadlines. A timeout
// leaves state exactly as the matching cancel would.
func (p *pipeline) tick(now time.Time) {
	for _, st := range p.stations {
		if o, expired := st.expire(now); expired {
			p.emit(o)
		}
	}
}

// menuFrame builds the current walk window as an outMenu outcome: a
// header row plus the visible slice with the cursor marked.
func (p *pipeline) menuFrame(stationNo int, w *defectWalk) outcome {
	rows, sel := w.visible()
	lines := make([]string, 0, walkWindow+1)
	lines = append(lines, "Select "+w.level.String())
	for i, r := range rows {
		marker := "  "
		if i == sel {
			marker = "> "
		}
		lines = append(lines, marker+r)
	}
	return outcome{Kind: outMenu, Station: stationNo, Lines: lines}
}

func (p *pipeline) emitMenu(st *station) {
	if st.walk != nil {
		p.emit(p.menuFrame(st.cfg.Number, st.walk))
	}
}

// emit publishes the outcome to the operator layer without ever
// blocking the polling loop: if the panel is behind, the event is
// dropped and logged.
func (p *pipeline) emit(o outcome) outcome {
	if o.Kind != outIgnored && o.Kind != outMenu {
		pipeLogger.Infof("%v", o)
	}
	if p.events != nil {
		select {
		case p.events <- o:
		default:
			pipeLogger.Warningf("operator event dropped: %v", o)
		}
	}
	return o
}
