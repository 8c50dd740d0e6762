// Package config loads the simulator's cluster and cache geometry from an
// optional JSON file: read defaults, then overlay whatever the file sets.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/coherence/cache"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/coherence/network"
)

// Config is the JSON-serializable form of network.Config.
type Config struct {
	NumProcessors int `json:"num_processors"`
	NumLines      int `json:"num_lines"`
	SetBits       int `json:"set_bits"`
	Associativity int `json:"associativity"`
	BlockBits     int `json:"block_bits"`
}

// Default returns the simulator's built-in configuration: 4 processors, 256
// directory lines per node, and an S=1/E=16/B=16 cache.
func Default() *Config {
	d := network.DefaultConfig()
	return &Config{
		NumProcessors: d.NumProcessors,
		NumLines:      d.NumLines,
		SetBits:       d.Cache.S,
		Associativity: d.Cache.E,
		BlockBits:     d.Cache.B,
	}
}

// Load reads a Config from a JSON file, starting from Default and
// overlaying whatever fields the file sets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return c, nil
}

// Network converts a Config into the network.Config the interconnect is
// built from.
func (c *Config) Network() network.Config {
	return network.Config{
		NumProcessors: c.NumProcessors,
		NumLines:      c.NumLines,
		Cache: cache.Config{
			S: c.SetBits,
			E: c.Associativity,
			B: c.BlockBits,
		},
	}
}
