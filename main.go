package main

import (
	"net/http"
	"os"
	"time"

	"github.com/juju/loggo"
)

// APPLICATION STATE

var (
	cfg       = &config{}
	queue     *scanQueue
	collector *wsCollector
	clock     = newSysClock()
	taxStore  = newTaxonomyStore()
	logger    = loggo.GetLogger("main")
)

// APPLICATION ENTRY POINT

func main() {
	// SETUP
	err := cfg.fromFile("config.json")
	if err != nil {
		*cfg = defaultConfig()
		logger.Warningf("No config.json file found, using standard values")
	}
	cfg.applyEnv()
	loggo.ConfigureLoggers(cfg.LogLevels)
	if cfg.ErrorLogFile != "" {
		file, err := os.Create(cfg.ErrorLogFile)
		if err == nil {
			err = loggo.RegisterWriter("file",
				loggo.NewSimpleWriter(file, &loggo.DefaultFormatter{}), loggo.WARNING)
			if err != nil {
				logger.Warningf(err.Error())
			}
		}
	}

	// The queue is the one thing the terminal cannot run without; the
	// loss guarantees depend on it existing.
	queue, err = newScanQueue(cfg.QueueSize)
	if err != nil {
		logger.Criticalf("cannot create scan queue: %v", err)
		os.Exit(1)
	}

	// The host OS keeps the system clock NTP-synced; time-authority
	// handling beyond this flag lives outside the terminal core.
	clock.SetSynchronized(true)

	collector = newWSCollector("ws://"+cfg.CollectorAddr+cfg.CollectorPath,
		time.Duration(cfg.ReconnectSec)*time.Second)
	go collector.run()

	if cfg.TaxonomyURL != "" {
		go taxStore.refresh(newHTTPTaxonomyFetcher(cfg.TaxonomyURL), time.Minute, nil)
	}

	events := make(chan outcome, 64)
	go runPanel(events, logPanel{})

	signals := make(chan opSignal, 16)
	reader := newConsoleReader(signals)
	go reader.run(os.Stdin)

	pipe := newPipeline(cfg.Stations, cfg.registry(), queue,
		stationIDTable{unit: cfg.Unit, line: cfg.Line},
		clock, collector, taxStore, events,
		time.Duration(cfg.ConfirmTimeoutSec)*time.Second,
		time.Duration(cfg.WalkTimeoutSec)*time.Second)

	// The two units: time-critical polling and best-effort delivery,
	// coupled only through the bounded queue.
	poll := newPoller(reader, cfg.Stations, pipe, signals,
		time.Duration(cfg.SettleMs)*time.Millisecond,
		time.Duration(cfg.PollPassMs)*time.Millisecond)
	go poll.run()

	dlv := newDeliverer(queue, collector, clock,
		time.Duration(cfg.DeliveryPassMs)*time.Millisecond,
		time.Duration(cfg.StatusIntervalSec)*time.Second)
	go dlv.run()

	logger.Infof("terminal up, %d stations, collector %v", len(cfg.Stations), cfg.CollectorAddr)

	err = http.ListenAndServe(":"+cfg.HTTPPort, newRouter())
	if err != nil {
		logger.Criticalf(err.Error())
		os.Exit(1)
	}
}
