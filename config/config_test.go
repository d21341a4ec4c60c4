package config_test

import (
	"testing"

	"github.com/fib-lab/citytrafficsim/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
simulation:
  duration: 120
network:
  xml_path: layout.xml
volumes:
  - title: A-to-B
    origin_indices: [0]
    destination_indices: [1]
    cars_per_hour: 300
`

func TestParseAppliesSimulationDefaults(t *testing.T) {
	c, err := config.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 15.0, c.Simulation.TicksPerSecond)
	assert.Equal(t, 1.0, c.Simulation.Speed)
	assert.Equal(t, 120.0, c.Simulation.Duration)
	assert.Equal(t, "layout.xml", c.Network.XMLPath)
	require.Len(t, c.Volumes, 1)
	assert.Equal(t, "A-to-B", c.Volumes[0].Title)
	assert.Equal(t, 300.0, c.Volumes[0].CarsPerHour)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := config.Parse([]byte("simulation:\n  duration: 1\nbogus_field: 3\n"))
	assert.Error(t, err)
}

func TestParsePreservesExplicitSimulationValues(t *testing.T) {
	c, err := config.Parse([]byte("simulation:\n  duration: 1\n  ticks_per_second: 30\n  speed: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 30.0, c.Simulation.TicksPerSecond)
	assert.Equal(t, 2.0, c.Simulation.Speed)
}
