// Command citytrafficsim is a narrow, non-interactive scenario runner: it
// loads a config and a network, runs the simulation for its configured
// duration (or until every vehicle has retired and no volume can spawn
// another), and prints each live
// vehicle's final position. There is no renderer, scripting console, or
// interactive editing here.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fib-lab/citytrafficsim/config"
	"github.com/fib-lab/citytrafficsim/network"
	"github.com/fib-lab/citytrafficsim/randengine"
	"github.com/fib-lab/citytrafficsim/simulation"
	"github.com/fib-lab/citytrafficsim/traffic"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "", "config file path")

	logLevels = map[string]logrus.Level{
		"trace": logrus.TraceLevel,
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"off":   logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "log level (one of: trace debug info warn error off)")

	log = logrus.WithField("module", "citytrafficsim")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	level, ok := logLevels[*logLevel]
	if !ok {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	logrus.SetLevel(level)

	if *configPath == "" {
		log.Panic("config file must be specified with -config")
	}
	c, err := config.Load(*configPath)
	if err != nil {
		log.Panicf("config load err: %v", err)
	}
	log.Infof("%+v", c)

	net, manager := buildScenario(c)
	sim := simulation.New(manager)
	sim.SetTicksPerSecond(c.Simulation.TicksPerSecond)
	sim.SetSpeed(c.Simulation.Speed)
	sim.Reset(c.Simulation.Seed)

	runToCompletion(sim, manager, c.Simulation.Duration)

	printPositions(net, manager)
}

// buildScenario loads the network named by c.Network.XMLPath and wires a
// traffic.Manager from both the XML document's own embedded volumes (when
// requested) and the volumes listed explicitly in c.Volumes.
func buildScenario(c config.Config) (*network.Network, *traffic.Manager) {
	if c.Network.XMLPath == "" {
		log.Panic("network.xml_path must be specified")
	}
	f, err := os.Open(c.Network.XMLPath)
	if err != nil {
		log.Panicf("network file open err: %v", err)
	}
	defer f.Close()

	net, embeddedVolumes, err := network.ImportLegacyXML(f)
	if err != nil {
		log.Panicf("network import err: %v", err)
	}

	manager := traffic.NewManager(net, randengine.New(uint64(c.Simulation.Seed)))
	if c.Network.UseEmbeddedVolumes {
		for _, v := range embeddedVolumes {
			manager.AddVolume(&traffic.Volume{
				Title:       v.Title,
				Origin:      traffic.Location{Nodes: v.StartNodes},
				Destination: traffic.Location{Nodes: v.DestinationNodes},
				CarsPerHour: v.CarsPerHour,
			})
		}
	}
	for _, vc := range c.Volumes {
		manager.AddVolume(&traffic.Volume{
			Title:       vc.Title,
			Origin:      traffic.Location{Nodes: nodesAt(net, vc.OriginIndices)},
			Destination: traffic.Location{Nodes: nodesAt(net, vc.DestinationIndices)},
			CarsPerHour: vc.CarsPerHour,
		})
	}
	return net, manager
}

// nodesAt resolves node indices (into net.Nodes()) from a VolumeConfig,
// skipping any index out of range with a warning rather than failing the
// whole scenario.
func nodesAt(net *network.Network, indices []int) []*network.Node {
	all := net.Nodes()
	var nodes []*network.Node
	for _, i := range indices {
		if i < 0 || i >= len(all) {
			log.Warnf("citytrafficsim: node index %d out of range (network has %d nodes)", i, len(all))
			continue
		}
		nodes = append(nodes, all[i])
	}
	return nodes
}

// runToCompletion steps sim synchronously until duration simulated seconds
// have elapsed, stopping early once no volume can ever spawn again and no
// vehicle remains live.
func runToCompletion(sim *simulation.Simulation, manager *traffic.Manager, duration float64) {
	for sim.Now() < duration {
		sim.Step()
		if len(manager.Vehicles()) == 0 && !anyVolumeActive(manager) {
			log.Infof("citytrafficsim: network empty and no volume can spawn, stopping at t=%.2fs", sim.Now())
			return
		}
	}
}

func anyVolumeActive(manager *traffic.Manager) bool {
	for _, v := range manager.Volumes() {
		if v.CarsPerHour > 0 && !v.Origin.IsEmpty() && !v.Destination.IsEmpty() {
			return true
		}
	}
	return false
}

// printPositions reports every live vehicle's current connection
// endpoints and arc position once at the end of the run.
func printPositions(net *network.Network, manager *traffic.Manager) {
	vehicles := manager.Vehicles()
	fmt.Printf("%d vehicle(s) still live on %q\n", len(vehicles), net.Title())
	for i, v := range vehicles {
		c := v.CurrentConnection()
		if c == nil {
			continue
		}
		fmt.Printf("  vehicle %d: arc %.1f on connection %v -> %v\n",
			i, v.ArcPosition(), c.Start().Position(), c.End().Position())
	}
}
