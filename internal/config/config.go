package config

import (
	"fmt"

	"rescue_ai/internal/grid"
	"rescue_ai/internal/planner"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Grid    GridConfig    `yaml:"grid"`
	Limits  LimitsConfig  `yaml:"limits"`
	Planner PlannerConfig `yaml:"planner"`
	Sim     SimConfig     `yaml:"sim"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	AllowOrigin string `yaml:"allow_origin"`
}

type GridConfig struct {
	Size  int      `yaml:"size"`
	Exits [][2]int `yaml:"exits"` // [row, col]; empty = opposite corners
}

type LimitsConfig struct {
	MaxAgents    int `yaml:"max_agents"`
	MaxSurvivors int `yaml:"max_survivors"`
	MaxObstacles int `yaml:"max_obstacles"`
}

type PlannerConfig struct {
	KMeansIterations int     `yaml:"kmeans_iterations"`
	Population       int     `yaml:"population"`
	Generations      int     `yaml:"generations"`
	Elite            int     `yaml:"elite"`
	ParentPool       int     `yaml:"parent_pool"`
	MutationRate     float64 `yaml:"mutation_rate"`
}

type SimConfig struct {
	Seed      int64 `yaml:"seed"` // 0 = seed from the clock
	MaxTicks  int   `yaml:"max_ticks"`
	LogEvents bool  `yaml:"log_events"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Error reports an invalid configuration value.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("config: %s: %s", e.Key, e.Reason) }

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.AllowOrigin == "" {
		c.Server.AllowOrigin = "*"
	}
	if c.Grid.Size == 0 {
		c.Grid.Size = grid.DefaultSize
	}
	if len(c.Grid.Exits) == 0 {
		for _, e := range grid.DefaultExits(c.Grid.Size) {
			c.Grid.Exits = append(c.Grid.Exits, e.Pair())
		}
	}
	if c.Limits.MaxAgents == 0 {
		c.Limits.MaxAgents = 50
	}
	if c.Limits.MaxSurvivors == 0 {
		c.Limits.MaxSurvivors = 500
	}
	if c.Limits.MaxObstacles == 0 {
		c.Limits.MaxObstacles = 500
	}
	ga := planner.DefaultGAParams()
	if c.Planner.KMeansIterations == 0 {
		c.Planner.KMeansIterations = planner.DefaultKMeansIterations
	}
	if c.Planner.Population == 0 {
		c.Planner.Population = ga.Population
	}
	if c.Planner.Generations == 0 {
		c.Planner.Generations = ga.Generations
	}
	if c.Planner.Elite == 0 {
		c.Planner.Elite = ga.Elite
	}
	if c.Planner.ParentPool == 0 {
		c.Planner.ParentPool = ga.ParentPool
	}
	if c.Planner.MutationRate == 0 {
		c.Planner.MutationRate = ga.MutationRate
	}
	if c.Sim.MaxTicks == 0 {
		c.Sim.MaxTicks = 1000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Grid.Size < 1 {
		return &Error{"grid.size", "must be at least 1"}
	}
	g := grid.New(c.Grid.Size, nil, nil)
	for i, e := range c.ExitCells() {
		if !g.InBounds(e) {
			return &Error{fmt.Sprintf("grid.exits[%d]", i), fmt.Sprintf("%v is outside a %dx%d grid", e, c.Grid.Size, c.Grid.Size)}
		}
	}
	switch {
	case c.Limits.MaxAgents < 1:
		return &Error{"limits.max_agents", "must be at least 1"}
	case c.Limits.MaxSurvivors < 0:
		return &Error{"limits.max_survivors", "must not be negative"}
	case c.Limits.MaxObstacles < 0:
		return &Error{"limits.max_obstacles", "must not be negative"}
	case c.Planner.KMeansIterations < 0:
		return &Error{"planner.kmeans_iterations", "must not be negative"}
	case c.Planner.Population < 2:
		return &Error{"planner.population", "must be at least 2"}
	case c.Planner.Generations < 0:
		return &Error{"planner.generations", "must not be negative"}
	case c.Planner.Elite < 0 || c.Planner.Elite > c.Planner.Population:
		return &Error{"planner.elite", "must be between 0 and population"}
	case c.Planner.ParentPool < 2:
		return &Error{"planner.parent_pool", "must be at least 2"}
	case c.Planner.MutationRate < 0 || c.Planner.MutationRate > 1:
		return &Error{"planner.mutation_rate", "must be within [0, 1]"}
	case c.Sim.MaxTicks < 1:
		return &Error{"sim.max_ticks", "must be at least 1"}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return &Error{"log.format", fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	return nil
}

func (c *Config) ExitCells() []grid.Cell {
	out := make([]grid.Cell, len(c.Grid.Exits))
	for i, e := range c.Grid.Exits {
		out[i] = grid.Cell{Row: e[0], Col: e[1]}
	}
	return out
}

func (c *Config) GAParams() planner.GAParams {
	return planner.GAParams{
		Population:   c.Planner.Population,
		Generations:  c.Planner.Generations,
		Elite:        c.Planner.Elite,
		ParentPool:   c.Planner.ParentPool,
		MutationRate: c.Planner.MutationRate,
	}
}
