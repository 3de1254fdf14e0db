package main

import (
	"strings"
	"testing"
)

func TestConsoleReaderTagLine(t *testing.T) {
	signals := make(chan opSignal, 4)
	c := newConsoleReader(signals)
	c.run(strings.NewReader("0 04A1B2C3\n"))

	uid, ok := c.PollForTag(0)
	if !ok {
		t.Fatal("no tag pending after tag line")
	}
	got, _ := encodeUID(uid)
	if got != "04A1B2C3" {
		t.Errorf("uid => %q; want 04A1B2C3", got)
	}
	if _, ok := c.PollForTag(0); ok {
		t.Error("tag reported twice")
	}
}

func TestConsoleReaderSignals(t *testing.T) {
	signals := make(chan opSignal, 4)
	c := newConsoleReader(signals)
	c.run(strings.NewReader("confirm 2\ndown 3\nnonsense\nbadhex zz\n"))

	want := []opSignal{
		{Kind: sigConfirm, Station: 2},
		{Kind: sigNavDown, Station: 3},
	}
	for _, w := range want {
		select {
		case got := <-signals:
			if got != w {
				t.Errorf("signal => %+v; want %+v", got, w)
			}
		default:
			t.Fatalf("missing signal %+v", w)
		}
	}
	select {
	case got := <-signals:
		t.Errorf("unexpected extra signal %+v", got)
	default:
	}
}
