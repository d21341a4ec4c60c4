// Package network holds the road graph the simulation kernel routes and
// drives vehicles over: nodes joined by cubic-curve connections, the
// intersections detected between them, and the legacy XML import that
// builds a Network from a saved layout.
package network

import "github.com/fib-lab/citytrafficsim/geometry"

// Node is a point in the road graph with Bézier handle vectors for the
// curves that meet there: InSlope is the tangent incoming connections
// arrive along, OutSlope the tangent outgoing connections leave along.
type Node struct {
	position geometry.Vec2
	inSlope  geometry.Vec2
	outSlope geometry.Vec2

	incoming []*Connection
	outgoing []*Connection
}

func newNode(position geometry.Vec2) *Node {
	return &Node{position: position}
}

// Position returns the node's world position.
func (n *Node) Position() geometry.Vec2 { return n.position }

// SetPosition moves the node. Callers that need affected connections'
// curves recomputed must call updateCurve on them (Network.SetNodePosition
// does this).
func (n *Node) SetPosition(p geometry.Vec2) { n.position = p }

// InSlope returns the tangent incoming connections' curves arrive along.
func (n *Node) InSlope() geometry.Vec2 { return n.inSlope }

// SetInSlope sets the incoming tangent.
func (n *Node) SetInSlope(s geometry.Vec2) { n.inSlope = s }

// OutSlope returns the tangent outgoing connections' curves leave along.
func (n *Node) OutSlope() geometry.Vec2 { return n.outSlope }

// SetOutSlope sets the outgoing tangent.
func (n *Node) SetOutSlope(s geometry.Vec2) { n.outSlope = s }

// IncomingConnections returns the connections ending at n.
func (n *Node) IncomingConnections() []*Connection { return n.incoming }

// OutgoingConnections returns the connections starting at n.
func (n *Node) OutgoingConnections() []*Connection { return n.outgoing }

// ConnectionTo returns the connection from n to target, or nil if none
// exists.
func (n *Node) ConnectionTo(target *Node) *Connection {
	for _, c := range n.outgoing {
		if c.end == target {
			return c
		}
	}
	return nil
}

func (n *Node) addOutgoing(c *Connection) { n.outgoing = append(n.outgoing, c) }
func (n *Node) addIncoming(c *Connection) { n.incoming = append(n.incoming, c) }

func (n *Node) removeOutgoing(c *Connection) {
	n.outgoing = removeConnection(n.outgoing, c)
}

func (n *Node) removeIncoming(c *Connection) {
	n.incoming = removeConnection(n.incoming, c)
}

func removeConnection(list []*Connection, target *Connection) []*Connection {
	for i, c := range list {
		if c == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
