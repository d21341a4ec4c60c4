package network

import (
	"encoding/xml"
	"io"

	"github.com/fib-lab/citytrafficsim/geometry"
)

const legacySaveVersion = 8

// VolumeSpec is one parsed <TrafficVolume> entry: a named origin node set,
// a named destination node set, and a cars/hour rate. The network package
// only parses these - wiring them into a running traffic.Manager is the
// caller's job (keeping this package free of a dependency on traffic,
// which itself depends on network).
type VolumeSpec struct {
	Title            string
	StartNodes       []*Node
	DestinationNodes []*Node
	CarsPerHour      float64
}

type legacyDocument struct {
	XMLName     xml.Name              `xml:"CityTrafficSimulator"`
	SaveVersion int                   `xml:"saveVersion,attr"`
	Layout      legacyLayout          `xml:"Layout"`
	Volumes     *legacyTrafficVolumes `xml:"TrafficVolumes"`
}

type legacyLayout struct {
	Title       string             `xml:"title"`
	InfoText    string             `xml:"infoText"`
	Nodes       []legacyNode       `xml:"LineNode"`
	Connections []legacyConnection `xml:"NodeConnection"`
}

type legacyPoint struct {
	X float64 `xml:"X"`
	Y float64 `xml:"Y"`
}

type legacyNode struct {
	HashCode int         `xml:"hashcode"`
	Position legacyPoint `xml:"position"`
	InSlope  legacyPoint `xml:"inSlope"`
	OutSlope legacyPoint `xml:"outSlope"`
}

type legacyConnection struct {
	StartNodeHash  int     `xml:"startNodeHash"`
	EndNodeHash    int     `xml:"endNodeHash"`
	Priority       int     `xml:"priority"`
	TargetVelocity float64 `xml:"targetVelocity"`
}

type legacyTrafficVolumes struct {
	StartPoints       legacyBunchList `xml:"StartPoints"`
	DestinationPoints legacyBunchList `xml:"DestinationPoints"`
	Volumes           []legacyVolume  `xml:"TrafficVolume"`
}

type legacyBunchList struct {
	Bunches []legacyBunchOfNodes `xml:"BunchOfNodes"`
}

type legacyBunchOfNodes struct {
	HashCode   int    `xml:"hashcode"`
	Title      string `xml:"title"`
	NodeHashes []int  `xml:"nodeHashes>int"`
}

type legacyVolume struct {
	StartHash       int     `xml:"startHash"`
	DestinationHash int     `xml:"destinationHash"`
	CarsPerHour     float64 `xml:"trafficVolumeCars"`
}

// ImportLegacyXML builds a Network (and its traffic-volume specs) from a
// legacy CityTrafficSimulator XML document. Unknown save versions and a
// missing Layout subtree abort the import silently: the caller receives
// an empty network and no error.
func ImportLegacyXML(r io.Reader) (*Network, []VolumeSpec, error) {
	var doc legacyDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return New(), nil, nil
	}
	if doc.SaveVersion != legacySaveVersion {
		log.Warnf("network: ImportLegacyXML: unsupported saveVersion %d, ignoring document", doc.SaveVersion)
		return New(), nil, nil
	}

	net := New()
	net.title = doc.Layout.Title
	net.description = doc.Layout.InfoText

	byHash := make(map[int]*Node, len(doc.Layout.Nodes))
	for _, n := range doc.Layout.Nodes {
		node := net.AddNode(legacyVec2(n.Position))
		// The file's inSlope.X is negated on import.
		node.SetInSlope(negateX(legacyVec2(n.InSlope)))
		node.SetOutSlope(legacyVec2(n.OutSlope))
		byHash[n.HashCode] = node
	}

	for _, c := range doc.Layout.Connections {
		start, okStart := byHash[c.StartNodeHash]
		end, okEnd := byHash[c.EndNodeHash]
		if !okStart || !okEnd {
			continue
		}
		conn, created := net.AddConnection(start, end)
		if !created {
			continue
		}
		conn.SetPriority(c.Priority)
		conn.SetTargetVelocity(c.TargetVelocity)
	}

	net.ComputeIntersections()

	var volumes []VolumeSpec
	if doc.Volumes != nil {
		startBunches := resolveBunches(doc.Volumes.StartPoints.Bunches, byHash)
		destBunches := resolveBunches(doc.Volumes.DestinationPoints.Bunches, byHash)
		for _, v := range doc.Volumes.Volumes {
			start, okStart := startBunches[v.StartHash]
			dest, okDest := destBunches[v.DestinationHash]
			if !okStart || !okDest {
				continue
			}
			volumes = append(volumes, VolumeSpec{
				StartNodes:       start.nodes,
				DestinationNodes: dest.nodes,
				CarsPerHour:      v.CarsPerHour,
				Title:            start.title,
			})
		}
	}

	return net, volumes, nil
}

type resolvedBunch struct {
	title string
	nodes []*Node
}

func resolveBunches(bunches []legacyBunchOfNodes, byHash map[int]*Node) map[int]resolvedBunch {
	result := make(map[int]resolvedBunch, len(bunches))
	for _, b := range bunches {
		nodes := make([]*Node, 0, len(b.NodeHashes))
		for _, h := range b.NodeHashes {
			if n, ok := byHash[h]; ok {
				nodes = append(nodes, n)
			}
		}
		result[b.HashCode] = resolvedBunch{title: b.Title, nodes: nodes}
	}
	return result
}

// legacyVec2 converts a parsed <position>/<inSlope>/<outSlope> element.
// encoding/xml decodes a missing or empty text node to the zero float64,
// so empty text nodes are tolerated.
func legacyVec2(p legacyPoint) geometry.Vec2 {
	return geometry.Vec2{X: p.X, Y: p.Y}
}

func negateX(v geometry.Vec2) geometry.Vec2 {
	v.X = -v.X
	return v
}
