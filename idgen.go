package main

import (
	"fmt"
	"strings"
	"sync"
)

// scanIDUnknown is returned when no reliable local date is available.
// It is a sentinel, not a unique ID; consumers must treat it as
// "time unknown".
const scanIDUnknown = "000000S00"

// scanIDGen produces scan identifiers unique within a calendar day for
// this terminal, format <YYMMDD>S<hex-counter>. The counter resets when
// the generator observes a date different from the one it last
// generated for. Safe for concurrent use.
type scanIDGen struct {
	mu       sync.Mutex
	lastDate string
	count    uint32
}

// NextScanID returns the next identifier for the given local date
// (YYMMDD). An empty date means the clock is not synchronized and
// yields the sentinel. The counter is incremented before formatting,
// so the first ID of a day carries counter value 1.
func (g *scanIDGen) NextScanID(date string) string {
	if date == "" {
		return scanIDUnknown
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if date != g.lastDate {
		g.count = 0
		g.lastDate = date
	}
	g.count++
	return strings.ToUpper(fmt.Sprintf("%sS%X", date, g.count))
}

// stationIDTable derives wire station identifiers from station numbers.
// Format UAss: terminal unit, production line, two-digit station.
type stationIDTable struct {
	unit string
	line string
}

// id is total over all inputs; station numbers outside the configured
// range map to the "00" unknown station, never an error.
func (t stationIDTable) id(stationNumber int) string {
	if stationNumber < 1 || stationNumber > 99 {
		stationNumber = 0
	}
	return fmt.Sprintf("%s%s%02d", t.unit, t.line, stationNumber)
}
