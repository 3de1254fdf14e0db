package main

import (
	"bufio"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/juju/loggo"
)

var simLogger = loggo.GetLogger("sim")

// consoleReader stands in for the RFID front-end when no hardware is
// attached: tags and button presses are typed on the console. It
// doubles as the manual test harness against a live collector.
//
//	<reader> <hexuid>   present a tag at reader index, e.g. "0 04A1B2C3"
//	confirm <station>
//	cancel <station>
//	up <station>
//	down <station>
type consoleReader struct {
	mu      sync.Mutex
	pending map[int][]byte
	signals chan<- opSignal
}

func newConsoleReader(signals chan<- opSignal) *consoleReader {
	return &consoleReader{
		pending: make(map[int][]byte),
		signals: signals,
	}
}

// run parses console lines. Meant to be run in its own goroutine.
func (c *consoleReader) run(in io.Reader) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		c.parseLine(sc.Text())
	}
}

func (c *consoleReader) parseLine(line string) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return
	}
	switch fields[0] {
	case "confirm", "cancel", "up", "down":
		station, err := strconv.Atoi(fields[1])
		if err != nil {
			simLogger.Warningf("bad station in %q", line)
			return
		}
		kinds := map[string]signalKind{
			"confirm": sigConfirm,
			"cancel":  sigCancel,
			"up":      sigNavUp,
			"down":    sigNavDown,
		}
		select {
		case c.signals <- opSignal{Kind: kinds[fields[0]], Station: station}:
		default:
			simLogger.Warningf("signal dropped, channel full")
		}
	default:
		reader, err := strconv.Atoi(fields[0])
		if err != nil {
			return
		}
		uid, err := hex.DecodeString(fields[1])
		if err != nil {
			simLogger.Warningf("bad uid in %q", line)
			return
		}
		c.mu.Lock()
		c.pending[reader] = uid
		c.mu.Unlock()
	}
}

func (c *consoleReader) PollForTag(reader int) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	uid, ok := c.pending[reader]
	if !ok {
		return nil, false
	}
	delete(c.pending, reader)
	return uid, true
}

func (c *consoleReader) ReleaseTag(reader int) {}
