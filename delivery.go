package main

import (
	"time"

	"github.com/juju/loggo"
)

var deliveryLogger = loggo.GetLogger("delivery")

// deliverer is the best-effort unit: it drains the queue while the
// collector link is up and lets the queue absorb scans while it is
// down. One record per pass, deliberately: a pass never occupies the
// transport longer than one send, and the loop yields between passes.
type deliverer struct {
	queue *scanQueue
	tx    transport
	clock clockSource

	passDelay   time.Duration
	statusEvery time.Duration

	quit chan struct{}
}

func newDeliverer(queue *scanQueue, tx transport, clock clockSource,
	passDelay, statusEvery time.Duration) *deliverer {
	return &deliverer{
		queue:       queue,
		tx:          tx,
		clock:       clock,
		passDelay:   passDelay,
		statusEvery: statusEvery,
		quit:        make(chan struct{}),
	}
}

// run executes delivery passes until Stop. Meant to be run in its own
// goroutine.
func (d *deliverer) run() {
	deliveryLogger.Infof("delivery loop started")
	lastStatus := time.Now()
	for {
		select {
		case <-d.quit:
			deliveryLogger.Infof("delivery loop stopped")
			return
		case <-time.After(d.passDelay):
		}
		d.pass()

		if time.Since(lastStatus) >= d.statusEvery {
			d.logStatus()
			lastStatus = time.Now()
		}
	}
}

// pass attempts to deliver at most one record. On a failed send the
// record goes back to the head of the queue and the pass ends; the
// retry happens on a later pass instead of spinning here.
func (d *deliverer) pass() {
	mtr.QueueDepth.Update(int64(d.queue.Len()))
	if !d.tx.IsConnected() {
		return
	}
	rec, ok := d.queue.TryDequeue()
	if !ok {
		return
	}
	if d.tx.Send(rec.wireMessage()) {
		mtr.ScansDelivered.Inc(1)
		deliveryLogger.Infof("delivered scan %v (station %v)", rec.ScanID, rec.StationID)
		return
	}
	mtr.SendFailures.Inc(1)
	if !d.queue.PushFront(rec) {
		// Cannot happen while this loop is the only consumer; if it
		// ever does, the record is gone and that must be visible.
		mtr.ScansDropped.Inc(1)
		deliveryLogger.Errorf("failed send and full queue, scan %v lost", rec.ScanID)
		return
	}
	deliveryLogger.Warningf("send failed, scan %v requeued at head", rec.ScanID)
}

func (d *deliverer) logStatus() {
	deliveryLogger.Infof("queue %d/%d | link %v | clock %v",
		d.queue.Len(), d.queue.Cap(), d.tx.IsConnected(), d.clock.Synchronized())
}

func (d *deliverer) Stop() {
	close(d.quit)
}
