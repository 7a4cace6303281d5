package qudit

import "runtime"

const (
	BackendParallel   = "parallel"
	BackendSequential = "sequential"
)

type Config struct {
	Backend        string
	Lanes          int
	MinCellsPerJob int
	Seed           uint64
}

func NewConfig() *Config {
	return &Config{
		Backend:        BackendParallel,
		Lanes:          runtime.NumCPU(),
		MinCellsPerJob: 1024,
		Seed:           1,
	}
}
