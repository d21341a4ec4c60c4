package traffic

import "github.com/fib-lab/citytrafficsim/network"

// Location is a named group of nodes a traffic volume can originate from
// or target - the legacy XML's BunchOfNodes and a plain single-node
// origin or destination alike: both are just a node slice of length 1 or
// more.
type Location struct {
	Title string
	Nodes []*network.Node
}

// IsEmpty reports whether the location has no nodes; the spawn phase
// skips any volume with an empty origin or destination.
func (l Location) IsEmpty() bool { return len(l.Nodes) == 0 }
