package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/qnet/devices"
	"github.com/sarchlab/qnet/sim"
	"github.com/sarchlab/qnet/simulation"
)

var demoFlags = struct {
	experiment string
	monitor    bool
	output     string
}{}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a built-in demo experiment",
	Long: `Run a built-in demo experiment. Available experiments:

  exchange   Alice sends two qubits to Bob over a deviceless link.
  fiber      Alice sends two qubits to Bob through a 50 km fiber span.
  classical  Alice sends three classical bits to Bob over a 1 km link.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		s := buildSimulation()
		defer s.Terminate()

		switch demoFlags.experiment {
		case "exchange":
			return runExchange(s, nil)
		case "fiber":
			return runExchange(s, []sim.Device{
				devices.Fiber{LengthKM: 50.0},
			})
		case "classical":
			return runClassical(s)
		default:
			return fmt.Errorf("unknown experiment %q",
				demoFlags.experiment)
		}
	},
}

func init() {
	demoCmd.Flags().StringVarP(&demoFlags.experiment, "experiment", "e",
		"exchange", "experiment to run")
	demoCmd.Flags().BoolVar(&demoFlags.monitor, "monitor", false,
		"serve simulation state over HTTP while running")
	demoCmd.Flags().StringVarP(&demoFlags.output, "output", "o", "",
		"trace database file name, without the .sqlite3 suffix")

	rootCmd.AddCommand(demoCmd)
}

func buildSimulation() *simulation.Simulation {
	builder := simulation.MakeBuilder().
		WithOutputFileName(demoFlags.output)

	if !demoFlags.monitor {
		builder = builder.WithoutMonitoring()
	}

	return builder.Build()
}

func runExchange(s *simulation.Simulation, transit []sim.Device) error {
	alice := sim.MakeAgentBuilder().
		WithQubits(0, 1).
		WithProtocol(func(a *sim.Agent) error {
			delay, err := a.Send("Bob", []sim.Qubit{0, 1})
			if err != nil {
				return err
			}

			fmt.Printf("Alice sent qubits 0 and 1, source delay %g s\n",
				float64(delay))
			return nil
		}).
		Build("Alice")

	bob := sim.MakeAgentBuilder().
		WithProtocol(func(a *sim.Agent) error {
			qubits, err := a.Receive("Alice")
			if err != nil {
				return err
			}

			fmt.Printf("Bob received %d qubits, clock now %g s\n",
				len(qubits), float64(a.Now()))
			return nil
		}).
		Build("Bob")

	conn := sim.MakeQConnectBuilder().
		WithAgents(alice, bob).
		WithTransitDevices(transit...).
		Build("AliceBob")

	s.RegisterAgent(alice)
	s.RegisterAgent(bob)
	s.RegisterQConnect(conn)

	return s.Run()
}

func runClassical(s *simulation.Simulation) error {
	alice := sim.MakeAgentBuilder().
		WithProtocol(func(a *sim.Agent) error {
			_, err := a.SendClassical("Bob", []byte{1, 0, 1})
			return err
		}).
		Build("Alice")

	bob := sim.MakeAgentBuilder().
		WithProtocol(func(a *sim.Agent) error {
			bits, err := a.ReceiveClassical("Alice")
			if err != nil {
				return err
			}

			fmt.Printf("Bob received bits %v, clock now %g s\n",
				bits, float64(a.Now()))
			return nil
		}).
		Build("Bob")

	conn := sim.MakeCConnectBuilder().
		WithAgents(alice, bob).
		WithLength(1.0).
		Build("AliceBob")

	s.RegisterAgent(alice)
	s.RegisterAgent(bob)
	s.RegisterCConnect(conn)

	return s.Run()
}
