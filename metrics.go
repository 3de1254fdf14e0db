package main

import (
	"os"
	"time"

	"github.com/rcrowley/go-metrics"
)

type appMetrics struct {
	StartTime time.Time
	PID       int

	ScansAccepted      metrics.Counter
	ScansDropped       metrics.Counter
	ScansEvicted       metrics.Counter
	Duplicates         metrics.Counter
	ScansDelivered     metrics.Counter
	ScanAcks           metrics.Counter
	SendFailures       metrics.Counter
	DefectsSent        metrics.Counter
	DefectSendFailures metrics.Counter
	QueueDepth         metrics.Gauge
}

type exportMetrics struct {
	UpTime             string
	PID                int
	ScansAccepted      int64
	ScansDropped       int64
	ScansEvicted       int64
	Duplicates         int64
	ScansDelivered     int64
	ScanAcks           int64
	SendFailures       int64
	DefectsSent        int64
	DefectSendFailures int64
	QueueDepth         int64
	QueueCap           int
	LinkUp             bool
	ClockSynced        bool
}

var mtr = registerMetrics()

func registerMetrics() *appMetrics {
	m := &appMetrics{
		StartTime:          time.Now(),
		PID:                os.Getpid(),
		ScansAccepted:      metrics.NewCounter(),
		ScansDropped:       metrics.NewCounter(),
		ScansEvicted:       metrics.NewCounter(),
		Duplicates:         metrics.NewCounter(),
		ScansDelivered:     metrics.NewCounter(),
		ScanAcks:           metrics.NewCounter(),
		SendFailures:       metrics.NewCounter(),
		DefectsSent:        metrics.NewCounter(),
		DefectSendFailures: metrics.NewCounter(),
		QueueDepth:         metrics.NewGauge(),
	}
	metrics.Register("ScansAccepted", m.ScansAccepted)
	metrics.Register("ScansDropped", m.ScansDropped)
	metrics.Register("ScansEvicted", m.ScansEvicted)
	metrics.Register("Duplicates", m.Duplicates)
	metrics.Register("ScansDelivered", m.ScansDelivered)
	metrics.Register("ScanAcks", m.ScanAcks)
	metrics.Register("SendFailures", m.SendFailures)
	metrics.Register("DefectsSent", m.DefectsSent)
	metrics.Register("DefectSendFailures", m.DefectSendFailures)
	metrics.Register("QueueDepth", m.QueueDepth)
	return m
}

func (m *appMetrics) Export() *exportMetrics {
	e := &exportMetrics{
		UpTime:             time.Since(m.StartTime).String(),
		PID:                m.PID,
		ScansAccepted:      m.ScansAccepted.Count(),
		ScansDropped:       m.ScansDropped.Count(),
		ScansEvicted:       m.ScansEvicted.Count(),
		Duplicates:         m.Duplicates.Count(),
		ScansDelivered:     m.ScansDelivered.Count(),
		ScanAcks:           m.ScanAcks.Count(),
		SendFailures:       m.SendFailures.Count(),
		DefectsSent:        m.DefectsSent.Count(),
		DefectSendFailures: m.DefectSendFailures.Count(),
		QueueDepth:         m.QueueDepth.Value(),
	}
	if queue != nil {
		e.QueueDepth = int64(queue.Len())
		e.QueueCap = queue.Cap()
	}
	if collector != nil {
		e.LinkUp = collector.IsConnected()
	}
	e.ClockSynced = clock.Synchronized()
	return e
}
