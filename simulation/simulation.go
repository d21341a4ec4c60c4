// Package simulation drives the tick loop: a background worker that runs
// the traffic manager's spawn/prepare/think/move/retire update once per
// simulated tick, paced to wall clock, or a single synchronous step when
// the caller wants to pause.
package simulation

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/fib-lab/citytrafficsim/signal"
	"github.com/fib-lab/citytrafficsim/traffic"
)

const defaultTicksPerSecond = 15.0

// Simulation owns the tick clock and the wall-clock-paced background
// worker over a traffic.Manager. The zero value is not usable; construct
// with New.
type Simulation struct {
	signal.Receiver

	manager *traffic.Manager

	// mu guards ticksPerSecond, speed, and now, and is held for the full
	// duration of every tick, so observers reading the network never see a
	// half-applied tick.
	mu             sync.Mutex
	ticksPerSecond float64
	speed          float64
	now            float64

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// Stepped fires after every tick, with the simulated clock value, and
	// is emitted with mu released so observers may re-acquire it.
	Stepped signal.Signal[float64]
}

// New returns a Simulation driving manager, with the default 15 Hz tick
// rate and speed multiplier 1.
func New(manager *traffic.Manager) *Simulation {
	return &Simulation{
		manager:        manager,
		ticksPerSecond: defaultTicksPerSecond,
		speed:          1,
	}
}

// Lock acquires the simulation-wide mutex. Observers hold it while
// reading the network between ticks; the kernel holds it for the full
// duration of every tick, so a holder never sees a half-applied one.
func (s *Simulation) Lock() { s.mu.Lock() }

// Unlock releases the simulation-wide mutex.
func (s *Simulation) Unlock() { s.mu.Unlock() }

// TicksPerSecond returns the simulated tick rate.
func (s *Simulation) TicksPerSecond() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticksPerSecond
}

// SetTicksPerSecond sets the simulated tick rate. Values <= 0 are logged
// and ignored.
func (s *Simulation) SetTicksPerSecond(hz float64) {
	if hz <= 0 {
		log.Warnf("simulation: ticksPerSecond %f must be positive, ignoring", hz)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticksPerSecond = hz
}

// Speed returns the wall-clock speed multiplier.
func (s *Simulation) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// SetSpeed sets the wall-clock speed multiplier. The multiplier is
// always >= 1; lower values are clamped with a warning.
func (s *Simulation) SetSpeed(speed float64) {
	if speed < 1 {
		log.Warnf("simulation: speed %f below 1, clamping", speed)
		speed = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = speed
}

// Now returns the current simulated clock, in seconds.
func (s *Simulation) Now() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Reset reseeds the simulation's randomizer and resets its simulated
// clock to zero. Live vehicles and the spawn backlog are left as they are,
// so a later Start/Step sequence reproduces the same trajectories only on a
// fresh traffic.Manager.
func (s *Simulation) Reset(seed uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager.ResetRandomizer(seed)
	s.now = 0
}

// Step runs exactly one tick synchronously, for use while the background
// worker is stopped (e.g. single-stepping a paused simulator).
func (s *Simulation) Step() {
	now, tickLength := s.beginTick()
	s.manager.Tick(now, tickLength)
	s.endTick(now, tickLength)
}

// beginTick locks mu for the duration of the tick and returns the
// simulated time and tick length to run it with.
func (s *Simulation) beginTick() (now, tickLength float64) {
	s.mu.Lock()
	return s.now, 1 / s.ticksPerSecond
}

// endTick advances the simulated clock, releases mu, and emits Stepped
// with the mutex released so observers may re-acquire it.
func (s *Simulation) endTick(now, tickLength float64) {
	s.now = now + tickLength
	stepped := s.now
	s.mu.Unlock()
	s.Stepped.Emit(stepped)
}

// Start launches the background worker, which runs ticks until duration
// simulated seconds have elapsed or Stop is called, pacing each tick to
// wall clock 1/(ticksPerSecond*speed) seconds. Calling Start while
// already running is a no-op.
func (s *Simulation) Start(duration float64) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(duration)
}

// run is the background worker body.
func (s *Simulation) run(duration float64) {
	defer close(s.doneCh)
	defer s.running.Store(false)

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		s.mu.Lock()
		if s.now >= duration {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		start := time.Now()
		now, tickLength := s.beginTick()
		period := tickLength / s.speed
		s.manager.Tick(now, tickLength)
		s.endTick(now, tickLength)

		if elapsed := time.Since(start); elapsed < time.Duration(period*float64(time.Second)) {
			time.Sleep(time.Duration(period*float64(time.Second)) - elapsed)
		}
	}
}

// Stop signals the background worker to finish its current tick and
// return, then waits for it to join. Calling Stop when not running is a
// no-op.
func (s *Simulation) Stop() {
	if !s.running.Load() {
		return
	}
	close(s.stopCh)
	<-s.doneCh
}
