package network_test

import (
	"strings"
	"testing"

	"github.com/fib-lab/citytrafficsim/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLayout = `<?xml version="1.0"?>
<CityTrafficSimulator saveVersion="8">
  <Layout>
    <title>two roads</title>
    <infoText></infoText>
    <LineNode>
      <hashcode>11</hashcode>
      <position><X>0</X><Y>0</Y></position>
      <inSlope><X>5</X><Y>0</Y></inSlope>
      <outSlope><X>10</X><Y>0</Y></outSlope>
    </LineNode>
    <LineNode>
      <hashcode>22</hashcode>
      <position><X>1000</X><Y>0</Y></position>
      <inSlope><X>10</X><Y>0</Y></inSlope>
      <outSlope><X>10</X><Y>0</Y></outSlope>
    </LineNode>
    <NodeConnection>
      <startNodeHash>11</startNodeHash>
      <endNodeHash>22</endNodeHash>
      <priority>3</priority>
      <targetVelocity>14</targetVelocity>
    </NodeConnection>
  </Layout>
  <TrafficVolumes>
    <StartPoints>
      <BunchOfNodes>
        <hashcode>100</hashcode>
        <title>west side</title>
        <nodeHashes><int>11</int></nodeHashes>
      </BunchOfNodes>
    </StartPoints>
    <DestinationPoints>
      <BunchOfNodes>
        <hashcode>200</hashcode>
        <title>east side</title>
        <nodeHashes><int>22</int></nodeHashes>
      </BunchOfNodes>
    </DestinationPoints>
    <TrafficVolume>
      <startHash>100</startHash>
      <destinationHash>200</destinationHash>
      <trafficVolumeCars>120</trafficVolumeCars>
    </TrafficVolume>
  </TrafficVolumes>
</CityTrafficSimulator>`

func TestImportLegacyXML(t *testing.T) {
	net, volumes, err := network.ImportLegacyXML(strings.NewReader(sampleLayout))
	require.NoError(t, err)

	assert.Equal(t, "two roads", net.Title())
	require.Len(t, net.Nodes(), 2)
	require.Len(t, net.Connections(), 1)

	c := net.Connections()[0]
	assert.Equal(t, 3, c.Priority())
	assert.Equal(t, 14.0, c.TargetVelocity())
	assert.Equal(t, net.Nodes()[0], c.Start())
	assert.Equal(t, net.Nodes()[1], c.End())

	// The file's inSlope.X is negated on import.
	assert.Equal(t, -5.0, net.Nodes()[0].InSlope().X)
	assert.Equal(t, 10.0, net.Nodes()[0].OutSlope().X)

	require.Len(t, volumes, 1)
	assert.Equal(t, 120.0, volumes[0].CarsPerHour)
	require.Len(t, volumes[0].StartNodes, 1)
	assert.Equal(t, net.Nodes()[0], volumes[0].StartNodes[0])
	require.Len(t, volumes[0].DestinationNodes, 1)
	assert.Equal(t, net.Nodes()[1], volumes[0].DestinationNodes[0])
}

func TestImportLegacyXMLRejectsWrongSaveVersion(t *testing.T) {
	doc := strings.Replace(sampleLayout, `saveVersion="8"`, `saveVersion="7"`, 1)
	net, volumes, err := network.ImportLegacyXML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, net.Nodes())
	assert.Empty(t, net.Connections())
	assert.Empty(t, volumes)
}

func TestImportLegacyXMLToleratesMalformedDocument(t *testing.T) {
	net, volumes, err := network.ImportLegacyXML(strings.NewReader("not xml at all"))
	require.NoError(t, err)
	assert.Empty(t, net.Nodes())
	assert.Empty(t, volumes)
}
