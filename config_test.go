package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	body := `{
		"CollectorAddr": "10.0.0.7:8000",
		"QueueSize": 75,
		"Badges": {"04a1b2c3": {"employee": "EMP-001", "station": 1}}
	}`
	if err := os.WriteFile(file, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	c := defaultConfig()
	if err := c.fromFile(file); err != nil {
		t.Fatal(err)
	}
	if c.CollectorAddr != "10.0.0.7:8000" || c.QueueSize != 75 {
		t.Errorf("config => %q / %d", c.CollectorAddr, c.QueueSize)
	}

	// Registry keys are canonicalized whatever case the file used.
	r := c.registry()
	b, ok := r["04A1B2C3"]
	if !ok || b.EmployeeID != "EMP-001" || b.Station != 1 {
		t.Errorf("registry => %+v", r)
	}
}

func TestConfigMissingFile(t *testing.T) {
	c := &config{}
	if err := c.fromFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing config file did not error")
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("COLLECTOR_ADDR", "192.0.2.9:9000")
	t.Setenv("TERMINAL_LINE", "B")

	c := defaultConfig()
	c.applyEnv()

	if c.CollectorAddr != "192.0.2.9:9000" {
		t.Errorf("CollectorAddr => %q", c.CollectorAddr)
	}
	if c.Line != "B" {
		t.Errorf("Line => %q", c.Line)
	}
	// Untouched fields keep their defaults.
	if c.HTTPPort != "8899" {
		t.Errorf("HTTPPort => %q", c.HTTPPort)
	}
}
