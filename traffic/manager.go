package traffic

import (
	"math"

	"github.com/fib-lab/citytrafficsim/container"
	"github.com/fib-lab/citytrafficsim/network"
	"github.com/fib-lab/citytrafficsim/randengine"
	"github.com/fib-lab/citytrafficsim/signal"
	"github.com/fib-lab/citytrafficsim/vehicle"
	"github.com/samber/lo"
)

// spawnedTargetVelocity, spawnedLength are the fixed per-vehicle parameters
// the spawn phase constructs every car with.
const (
	spawnedTargetVelocity = 42.0
	spawnedLength         = 40.0

	// spawnClearance is the minimum gap, in arc units, a connection's
	// leading vehicle must already have ahead of the start node before a
	// new vehicle may spawn onto it.
	spawnClearance = 20.0
)

// Manager owns the traffic volumes of one network and drives vehicle
// spawning, the per-tick prepare/think/move update across every live
// vehicle, and retirement of vehicles that completed their route.
type Manager struct {
	signal.Receiver

	net *network.Network
	rng *randengine.Engine

	volumes []*Volume
	backlog []*Volume

	// vehicles batches the spawn phase's additions and the retire phase's
	// removals, applying each group in one pass instead of shifting a
	// plain slice on every single spawn and retirement.
	vehicles *container.IncrementalArray[*vehicle.Vehicle]

	// VehicleSpawned is emitted once per vehicle the spawn phase places on
	// the network.
	VehicleSpawned signal.Signal[*vehicle.Vehicle]
}

// NewManager returns a Manager with no volumes and no live vehicles, ready
// to drive net.
func NewManager(net *network.Network, rng *randengine.Engine) *Manager {
	return &Manager{
		net:      net,
		rng:      rng,
		vehicles: container.NewIncrementalArray[*vehicle.Vehicle](),
	}
}

// AddVolume registers a traffic volume to spawn from on every tick.
func (m *Manager) AddVolume(v *Volume) {
	m.volumes = append(m.volumes, v)
}

// Volumes returns every registered volume.
func (m *Manager) Volumes() []*Volume { return m.volumes }

// Vehicles returns every currently live vehicle, in slot order: spawn order
// until a retirement back-fills its slot with a later vehicle.
func (m *Manager) Vehicles() []*vehicle.Vehicle { return m.vehicles.Data() }

// ResetRandomizer reseeds the manager's spawn randomizer. It does not touch
// live vehicles or the backlog; callers that want a clean run also need a
// fresh network and Manager.
func (m *Manager) ResetRandomizer(seed uint32) {
	m.rng.Reset(seed)
}

// Tick runs one full traffic-manager update: spawn, prepare, think, move,
// retire, in that order. now is the simulated clock in seconds, tickLength
// the tick's duration in seconds.
func (m *Manager) Tick(now, tickLength float64) {
	m.spawnPhase(tickLength)
	m.vehicles.Prepare()

	for _, v := range m.vehicles.Data() {
		v.Prepare(now)
	}
	for _, v := range m.vehicles.Data() {
		v.Think()
	}
	for _, v := range m.vehicles.Data() {
		v.Move(tickLength)
	}
	m.retire()
}

// spawnPhase draws a Poisson-style interval per active volume, enqueues
// volumes whose draw comes up zero, then tries to clear every backlogged
// volume against the current network state. Volumes whose chosen origin is
// still blocked stay in the backlog for the next tick.
func (m *Manager) spawnPhase(tickLength float64) {
	for _, v := range m.volumes {
		if !v.active() {
			continue
		}
		modulus := int(math.Ceil(3600 / (tickLength * v.CarsPerHour)))
		if m.rng.NextInt(modulus) == 0 {
			m.enqueueBacklog(v)
		}
	}

	remaining := m.backlog[:0]
	for _, v := range m.backlog {
		if m.trySpawn(v) {
			continue
		}
		remaining = append(remaining, v)
	}
	m.backlog = remaining
}

// enqueueBacklog adds v to the backlog if it isn't already waiting there.
// Holding at most one pending spawn per volume keeps the backlog bounded
// under sustained origin blockage.
func (m *Manager) enqueueBacklog(v *Volume) {
	for _, pending := range m.backlog {
		if pending == v {
			return
		}
	}
	m.backlog = append(m.backlog, v)
}

// trySpawn picks a uniformly random start node from v's origin, checks
// every one of its outgoing connections for clearance, and if all are
// clear constructs and places a vehicle, emitting VehicleSpawned. It
// returns false (leaving the volume in the backlog) when the origin has no
// outgoing connections or any of them is blocked.
func (m *Manager) trySpawn(v *Volume) bool {
	start := v.Origin.Nodes[m.rng.NextInt(len(v.Origin.Nodes))]
	outgoing := start.OutgoingConnections()
	if len(outgoing) == 0 {
		return false
	}
	if !lo.EveryBy(outgoing, connectionIsClear) {
		return false
	}

	nv := vehicle.New(vehicle.DefaultModel(), spawnedTargetVelocity, spawnedLength)
	nv.Place(start, v.Destination.Nodes)
	if nv.CurrentConnection() == nil {
		log.Warnf("traffic: volume %q has no route from its chosen start node to its destination", v.Title)
		return false
	}

	m.vehicles.Add(nv)
	m.VehicleSpawned.Emit(nv)
	return true
}

// connectionIsClear reports whether c's leading vehicle (the one nearest
// c's start node) leaves enough room for a new vehicle to spawn onto it.
func connectionIsClear(c *network.Connection) bool {
	leader := c.Vehicles().First()
	if leader == nil {
		return true
	}
	lv, ok := leader.Value.(*vehicle.Vehicle)
	if !ok {
		return true
	}
	return lv.ArcPosition() >= lv.Length()+spawnClearance
}

// retire drops every vehicle whose route has completed (current connection
// is none) from the live set. The batched removal applies immediately so
// observers reading Vehicles between ticks never see a retired vehicle.
func (m *Manager) retire() {
	for _, v := range m.vehicles.Data() {
		if v.HasArrived() {
			m.vehicles.Remove(v)
		}
	}
	m.vehicles.Prepare()
}
