package network

import (
	"github.com/fib-lab/citytrafficsim/container"
	"github.com/fib-lab/citytrafficsim/geometry"
)

const defaultIntersectionTolerance = 4.0

// Network owns every node, connection, and intersection in the road graph.
// It is the sole authority for creating and destroying them: callers never
// construct a Node or Connection directly.
type Network struct {
	nodes         []*Node
	connections   []*Connection
	intersections []*Intersection

	title       string
	description string
}

// New returns an empty network.
func New() *Network {
	return &Network{}
}

// Title returns the network's title, as set by ImportLegacyXML.
func (n *Network) Title() string { return n.title }

// Description returns the network's descriptive text, as set by
// ImportLegacyXML.
func (n *Network) Description() string { return n.description }

// Nodes returns every node in the network.
func (n *Network) Nodes() []*Node { return n.nodes }

// NodesIn returns the nodes whose position lies within bounds.
func (n *Network) NodesIn(bounds geometry.Bounds) []*Node {
	var result []*Node
	for _, node := range n.nodes {
		if bounds.Contains(node.position) {
			result = append(result, node)
		}
	}
	return result
}

// Connections returns every connection in the network.
func (n *Network) Connections() []*Connection { return n.connections }

// Intersections returns every intersection in the network.
func (n *Network) Intersections() []*Intersection { return n.intersections }

// AddNode creates and adds a node at position.
func (n *Network) AddNode(position geometry.Vec2) *Node {
	node := newNode(position)
	n.nodes = append(n.nodes, node)
	return node
}

// RemoveNode removes node, cascading: every incident connection is
// removed first.
func (n *Network) RemoveNode(node *Node) {
	for len(node.incoming) > 0 {
		n.RemoveConnection(node.incoming[0])
	}
	for len(node.outgoing) > 0 {
		n.RemoveConnection(node.outgoing[0])
	}
	for i, candidate := range n.nodes {
		if candidate == node {
			n.nodes = append(n.nodes[:i], n.nodes[i+1:]...)
			break
		}
	}
}

// AddConnection creates a connection from start to end. At most one
// connection may exist per (start, end) pair; a duplicate is rejected and
// AddConnection returns (nil, false).
func (n *Network) AddConnection(start, end *Node) (*Connection, bool) {
	if start.ConnectionTo(end) != nil {
		return nil, false
	}
	c := newConnection(start, end)
	start.addOutgoing(c)
	end.addIncoming(c)
	n.connections = append(n.connections, c)
	return c, true
}

// RemoveConnection detaches connection from both endpoints' back-reference
// lists and from every intersection referencing it, then drops it from the
// network's connection and intersection lists.
func (n *Network) RemoveConnection(connection *Connection) {
	connection.start.removeOutgoing(connection)
	connection.end.removeIncoming(connection)

	var remaining []*Intersection
	for _, i := range n.intersections {
		if i.a == connection || i.b == connection {
			other := i.Other(connection)
			for node := other.intersections.First(); node != nil; node = node.Next() {
				if node.Value == i {
					other.removeIntersection(node)
					break
				}
			}
			continue
		}
		remaining = append(remaining, i)
	}
	n.intersections = remaining

	for i, candidate := range n.connections {
		if candidate == connection {
			n.connections = append(n.connections[:i], n.connections[i+1:]...)
			break
		}
	}
}

// SetNodePosition moves node and recomputes the curve of every incident
// connection.
func (n *Network) SetNodePosition(node *Node, p geometry.Vec2) {
	node.position = p
	updateIncidentCurves(node)
}

// SetNodeSlopes replaces node's tangent handles and recomputes the curve
// of every incident connection.
func (n *Network) SetNodeSlopes(node *Node, inSlope, outSlope geometry.Vec2) {
	node.inSlope = inSlope
	node.outSlope = outSlope
	updateIncidentCurves(node)
}

func updateIncidentCurves(node *Node) {
	for _, c := range node.incoming {
		c.updateCurve()
	}
	for _, c := range node.outgoing {
		c.updateCurve()
	}
}

// ComputeIntersections runs intersection detection for every connection
// against every connection after it in the network's connection list,
// appending newly found intersections to both the
// network's list and the affected connections' sorted intersection lists.
// Call once after bulk graph construction (e.g. after XML import) and
// again whenever topology changes significantly.
func (n *Network) ComputeIntersections() {
	n.intersections = nil
	for _, c := range n.connections {
		c.intersections = container.List[*Intersection, struct{}]{}
	}

	for i, c := range n.connections {
		found := detectIntersections(c, n.connections[i+1:], defaultIntersectionTolerance)
		for _, intersection := range found {
			n.intersections = append(n.intersections, intersection)
			intersection.a.addIntersection(intersection, intersection.arcA)
			intersection.b.addIntersection(intersection, intersection.arcB)
		}
	}
}
