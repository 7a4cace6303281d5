package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/theapemachine/errnie"
	"github.com/theapemachine/qudit"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		errnie.Info("qudit: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "qudit",
		Usage: "simulate multi-qudit registers and run the demonstration algorithms",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Value:   qudit.BackendParallel,
				Usage:   "compute backend: parallel or sequential",
				EnvVars: []string{"QUDIT_BACKEND"},
			},
			&cli.IntFlag{
				Name:    "lanes",
				Value:   qudit.NewConfig().Lanes,
				Usage:   "parallel lanes of the compute pool",
				EnvVars: []string{"QUDIT_LANES"},
			},
			&cli.IntFlag{
				Name:    "min-cells",
				Value:   qudit.NewConfig().MinCellsPerJob,
				Usage:   "kernels with at most this many output cells run inline",
				EnvVars: []string{"QUDIT_MIN_CELLS"},
			},
			&cli.Uint64Flag{
				Name:    "seed",
				Value:   qudit.NewConfig().Seed,
				Usage:   "seed of the measurement source",
				EnvVars: []string{"QUDIT_SEED"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "grover",
				Usage: "search a qubit register for marked basis states",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "size", Value: 4, Usage: "number of qubits"},
					&cli.IntSliceFlag{Name: "marked", Value: cli.NewIntSlice(5), Usage: "marked basis indexes"},
				},
				Action: runGrover,
			},
			{
				Name:  "shor",
				Usage: "factor n by order finding",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "n", Value: 15, Usage: "number to factor"},
					&cli.IntFlag{Name: "base", Value: 7, Usage: "base of the modular exponentiation"},
					&cli.IntFlag{Name: "attempts", Value: 5, Usage: "order finding runs before giving up"},
				},
				Action: runShor,
			},
			{
				Name:  "bell",
				Usage: "prepare and measure an entangled pair",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "radix", Value: 2, Usage: "levels per qudit"},
					&cli.IntFlag{Name: "shots", Value: 16, Usage: "number of fresh runs"},
				},
				Action: runBell,
			},
		},
	}
}

func configFrom(c *cli.Context) *qudit.Config {
	config := qudit.NewConfig()
	config.Backend = c.String("backend")
	config.Lanes = c.Int("lanes")
	config.MinCellsPerJob = c.Int("min-cells")
	config.Seed = c.Uint64("seed")
	return config
}

// device acquires the process-wide backend. Failing to get one is fatal.
func device(c *cli.Context) (*qudit.Device, *qudit.Config) {
	config := configFrom(c)

	backend, err := qudit.Acquire(c.Context, config)
	if err != nil {
		errnie.Info("compute device unavailable: %v", err)
		os.Exit(1)
	}

	return backend, config
}

func runGrover(c *cli.Context) error {
	backend, config := device(c)
	defer backend.Close()

	found, register, err := qudit.Grover(
		backend, c.Int("size"), c.IntSlice("marked"), qudit.WithSeed(config.Seed),
	)
	if err != nil {
		return err
	}

	fmt.Println(renderHistogram("grover", register.Histogram()))
	fmt.Println(renderResult("found", fmt.Sprint(found)))
	return nil
}

func runShor(c *cli.Context) error {
	backend, config := device(c)
	defer backend.Close()

	n := c.Int("n")
	policy := qudit.RetryOn(c.Int("attempts"), qudit.ErrFactorNotFound)

	return policy.Do(c.Context, func(attempt int) error {
		p, q, err := qudit.Factor(
			backend, n, c.Int("base"), 2, qudit.WithSeed(config.Seed+uint64(attempt)),
		)
		if err != nil {
			errnie.Info("attempt %d: %v", attempt, err)
			return err
		}

		fmt.Println(renderResult("factors", fmt.Sprintf("%d × %d", p, q)))
		return nil
	})
}

func runBell(c *cli.Context) error {
	backend, config := device(c)
	defer backend.Close()

	radix := c.Int("radix")
	group := qudit.NewBroadcastGroup("bell")
	defer group.Close()

	updates := group.Subscribe("render", 4)

	circuit := qudit.NewCircuit("bell", 2, radix)
	circuit.Place(0, qudit.PlaceSingle(qudit.GateH, 0))
	circuit.Place(1, qudit.PlaceControlled(qudit.GateX, 1, 0))

	executor := qudit.NewExecutor(backend, circuit, group, qudit.WithSeed(config.Seed))

	if err := executor.Start([]int{0, 0}); err != nil {
		return err
	}

	for {
		more, err := executor.Next()
		if err != nil {
			return err
		}

		if !more {
			break
		}

		snapshot := <-updates
		fmt.Println(renderHistogram(fmt.Sprintf("step %d", snapshot.Step), histogramOf(snapshot.Amplitudes)))
	}

	outcomes := make(map[string]int)

	for shot := 0; shot < c.Int("shots"); shot++ {
		register, err := qudit.NewRegister(
			backend, []int{0, 0}, radix, qudit.WithSeed(config.Seed+uint64(shot)),
		)
		if err != nil {
			return err
		}

		for _, valve := range []qudit.Valve{qudit.H(0), qudit.Controlled([]int{0}, qudit.X(1))} {
			if err := register.Apply(valve); err != nil {
				return err
			}
		}

		first, err := register.Measure(0)
		if err != nil {
			return err
		}

		second, err := register.Measure(1)
		if err != nil {
			return err
		}

		outcomes[fmt.Sprintf("%d%d", first, second)]++
	}

	fmt.Println(renderCounts("shots", outcomes))
	return nil
}
