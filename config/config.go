// Package config holds the YAML-tagged configuration for the
// citytrafficsim scenario runner: the network source, traffic volumes,
// and the simulation's tick rate, speed, duration, and seed.
package config

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultTicksPerSecond = 15.0
	defaultSpeed          = 1.0
)

// Config is the YAML document root.
type Config struct {
	Simulation Simulation     `yaml:"simulation"`
	Network    Network        `yaml:"network"`
	Volumes    []VolumeConfig `yaml:"volumes,omitempty"`
}

// Simulation holds the tick-loop parameters.
type Simulation struct {
	TicksPerSecond float64 `yaml:"ticks_per_second,omitempty"` // simulated Hz, default 15
	Speed          float64 `yaml:"speed,omitempty"`            // wall-clock multiplier, default 1, clamped >= 1
	Duration       float64 `yaml:"duration"`                   // run length in simulated seconds
	Seed           uint32  `yaml:"seed,omitempty"`             // randomizer seed
}

// Network describes where the road graph comes from. Exactly one of
// XMLPath (legacy CityTrafficSimulator XML) or a caller's own
// programmatic construction is expected; this struct only carries the
// former, since a programmatic network has no YAML representation to
// begin with.
type Network struct {
	XMLPath string `yaml:"xml_path,omitempty"`
	// UseEmbeddedVolumes wires in the TrafficVolume entries parsed from
	// the XML document's own TrafficVolumes subtree, in addition to
	// anything listed under Volumes below.
	UseEmbeddedVolumes bool `yaml:"use_embedded_volumes,omitempty"`
}

// VolumeConfig is one traffic volume's YAML form: origin and destination
// node groups given as indices into the loaded network's Nodes() slice
// (not the legacy XML's hash codes, which are import-time-only identifiers
// the network package doesn't retain on Node - see DESIGN.md), plus a
// cars/hour rate.
type VolumeConfig struct {
	Title              string  `yaml:"title"`
	OriginIndices      []int   `yaml:"origin_indices"`
	DestinationIndices []int   `yaml:"destination_indices"`
	CarsPerHour        float64 `yaml:"cars_per_hour"`
}

// Load reads and strictly decodes a Config from path, applying the
// Simulation defaults (ticks_per_second=15, speed=1) to zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse strictly decodes a Config from YAML bytes, rejecting unknown
// fields.
func Parse(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Config{}, err
	}
	if c.Simulation.TicksPerSecond == 0 {
		c.Simulation.TicksPerSecond = defaultTicksPerSecond
	}
	if c.Simulation.Speed == 0 {
		c.Simulation.Speed = defaultSpeed
	}
	return c, nil
}
