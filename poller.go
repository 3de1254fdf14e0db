package main

import (
	"time"

	"github.com/juju/loggo"
)

var pollLogger = loggo.GetLogger("poller")

// tagReader is the narrow view of the RFID front-end the polling loop
// consumes. PollForTag must be non-blocking or bounded-latency; the
// register-level driver and the shared-SPI chip-select handling live
// behind it.
type tagReader interface {
	// PollForTag samples the reader at the given index and returns the
	// raw UID bytes of a newly present tag, if any.
	PollForTag(reader int) ([]byte, bool)
	// ReleaseTag ends the session with the detected tag so it is not
	// reported again while it stays in the field.
	ReleaseTag(reader int)
}

// settle is the explicit timed yield between reader selections. The
// delay is a hardware timing requirement of the shared SPI bus, not a
// pacing convenience; it must stay precisely bounded.
func settle(d time.Duration) {
	time.Sleep(d)
}

// poller is the time-critical unit: it samples every reader in turn,
// feeds tags to the admission pipeline and drains operator signals.
// It never blocks on network or display I/O; the only thing it shares
// with the delivery unit is the bounded queue inside the pipeline.
type poller struct {
	readers tagReader
	table   []stationConfig
	pipe    *pipeline
	signals <-chan opSignal

	settleDelay time.Duration // between reader selections
	passDelay   time.Duration // between full passes, keeps the watchdog fed

	quit chan struct{}
}

func newPoller(readers tagReader, table []stationConfig, pipe *pipeline,
	signals <-chan opSignal, settleDelay, passDelay time.Duration) *poller {
	return &poller{
		readers:     readers,
		table:       table,
		pipe:        pipe,
		signals:     signals,
		settleDelay: settleDelay,
		passDelay:   passDelay,
		quit:        make(chan struct{}),
	}
}

// run executes polling passes until Stop. Meant to be run in its own
// goroutine.
func (p *poller) run() {
	pollLogger.Infof("polling loop started, %d stations", len(p.table))
	for {
		select {
		case <-p.quit:
			pollLogger.Infof("polling loop stopped")
			return
		default:
		}
		p.pass(time.Now())
		settle(p.passDelay)
	}
}

// pass is one full sweep: pending button presses first, then expired
// deadlines, then each reader in table order.
func (p *poller) pass(now time.Time) {
	p.drainSignals(now)
	p.pipe.tick(now)

	for _, sc := range p.table {
		uid, ok := p.readers.PollForTag(sc.Reader)
		if ok {
			p.pipe.admit(sc.Number, uid, now)
			p.readers.ReleaseTag(sc.Reader)
		}
		settle(p.settleDelay)
	}
}

func (p *poller) drainSignals(now time.Time) {
	for {
		select {
		case sig := <-p.signals:
			pollLogger.Debugf("signal %v for station %d", sig.Kind, sig.Station)
			p.pipe.signal(sig, now)
		default:
			return
		}
	}
}

func (p *poller) Stop() {
	close(p.quit)
}
