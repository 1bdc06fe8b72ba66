// Package config carries the normative constants of spec section 6 as
// an explicit value threaded through a session, rather than as
// top-level package state (spec.md §9's "Global file paths /
// constants" note), with an optional YAML overlay for experimentation.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every constant a sender or receiver session needs. The
// yaml tags let LoadOverlay overlay any subset of these from a file; fields
// left out of the file keep their Default() value.
type Config struct {
	MSS              int           `yaml:"mss"`
	WindowSize       int           `yaml:"window_size"`
	DupAckThreshold  int           `yaml:"dup_ack_threshold"`
	InitialCwnd      int           `yaml:"initial_cwnd"`
	InitialSsthresh  int           `yaml:"initial_ssthresh"`
	RTOInit          time.Duration `yaml:"rto_init"`
	RTOMin           time.Duration `yaml:"rto_min"`
	RTOMax           time.Duration `yaml:"rto_max"`
	ReceiverDeadline time.Duration `yaml:"receiver_deadline"`

	SenderFile     string `yaml:"sender_file"`
	ReceiverOutput string `yaml:"receiver_output"`
}

// Default returns a Config matching spec.md §6 exactly: an unconfigured
// run (no -config flag) must be spec-conformant.
func Default() Config {
	return Config{
		MSS:              1400,
		WindowSize:       5,
		DupAckThreshold:  3,
		InitialCwnd:      1 * 1400,
		InitialSsthresh:  16 * 1400,
		RTOInit:          1 * time.Second,
		RTOMin:           1 * time.Second,
		RTOMax:           2 * time.Second,
		ReceiverDeadline: 2 * time.Second,
		SenderFile:       "file.txt",
		ReceiverOutput:   "received_file.txt",
	}
}

// LoadOverlay reads the YAML file at path and overlays any fields it
// sets on top of base, returning the merged Config. base is returned
// unchanged if path is empty. Only fields present in the file are
// merged onto a copy of base, never the reverse: flags and defaults
// documented in spec.md §6 keep working with no config file present.
func LoadOverlay(base Config, path string) (Config, error) {
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	merged := base
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return Config{}, err
	}
	return merged, nil
}
