package main

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
)

type config struct {
	// Collector websocket endpoint
	CollectorAddr string // host:port
	CollectorPath string

	// Collector HTTP endpoint serving the defect definitions document;
	// empty disables the remote taxonomy fetch
	TaxonomyURL string

	// Listening port of the diagnostic HTTP server
	HTTPPort string

	// Log errors & warnings to this file
	ErrorLogFile string

	// Loggo levels spec, e.g. "<root>=WARNING;station=INFO"
	LogLevels string

	// Terminal identity, composed into station IDs (UAss)
	Unit string
	Line string

	QueueSize int

	ReconnectSec      int
	DeliveryPassMs    int
	StatusIntervalSec int

	SettleMs   int // SPI settle between reader selections
	PollPassMs int // delay between full polling passes

	ConfirmTimeoutSec int
	WalkTimeoutSec    int

	Stations []stationConfig

	// Badge registry: canonical UID -> employee and assigned station
	Badges map[string]badge
}

func (c *config) fromFile(file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, c)
}

// applyEnv lets deployment-varying fields be overridden from the
// environment, with an optional .env file alongside the binary.
func (c *config) applyEnv() {
	godotenv.Load()
	if v := os.Getenv("COLLECTOR_ADDR"); v != "" {
		c.CollectorAddr = v
	}
	if v := os.Getenv("COLLECTOR_PATH"); v != "" {
		c.CollectorPath = v
	}
	if v := os.Getenv("TAXONOMY_URL"); v != "" {
		c.TaxonomyURL = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("TERMINAL_UNIT"); v != "" {
		c.Unit = v
	}
	if v := os.Getenv("TERMINAL_LINE"); v != "" {
		c.Line = v
	}
}

// defaultConfig is the compiled-in fallback when no config.json is
// present: three stations on one line, the third one classifying
// defects.
func defaultConfig() config {
	return config{
		CollectorAddr:     "192.168.1.100:8000",
		CollectorPath:     "/rfid-ws",
		TaxonomyURL:       "http://192.168.1.100:8000/api/defect-definitions",
		HTTPPort:          "8899",
		LogLevels:         "<root>=WARNING;main=INFO;station=INFO;pipeline=INFO;delivery=INFO;ws=INFO;taxonomy=INFO",
		Unit:              "1",
		Line:              "A",
		QueueSize:         50,
		ReconnectSec:      5,
		DeliveryPassMs:    100,
		StatusIntervalSec: 30,
		SettleMs:          50,
		PollPassMs:        1,
		ConfirmTimeoutSec: 30,
		WalkTimeoutSec:    120,
		Stations: []stationConfig{
			{Number: 1, Reader: 0},
			{Number: 2, Reader: 1, Confirm: true, SuppressDup: true},
			{Number: 3, Reader: 2, Confirm: true, Defect: true, SuppressDup: true},
		},
		Badges: map[string]badge{
			"04A1B2C3": {EmployeeID: "EMP-001", Station: 1},
			"04D4E5F6": {EmployeeID: "EMP-002", Station: 2},
			"04112233": {EmployeeID: "EMP-003", Station: 3},
		},
	}
}

// registry returns the badge lookup keyed by canonical (uppercase) UID
// strings, whatever case the config file used.
func (c *config) registry() badgeRegistry {
	r := make(badgeRegistry, len(c.Badges))
	for uid, b := range c.Badges {
		r[canonicalKey(uid)] = b
	}
	return r
}
