package plume

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hjson/hjson-go"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the world settings, usually read from an HJSON file.
type Config struct {
	Gravity       mgl64.Vec3 `json:"gravity"`
	FixedTimestep float64    `json:"fixed-timestep"`
	Workers       int        `json:"workers"`
	// MaxSubsteps caps the fixed steps one Advance call may run; 0 means
	// DEFAULT_MAX_SUBSTEPS.
	MaxSubsteps   int        `json:"max-substeps"`
	Debug         bool       `json:"debug"`
	LogPrefix     string     `json:"log-prefix"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:       mgl64.Vec3{0, -9.81, 0},
		FixedTimestep: 1.0 / 50.0,
		Workers:       DEFAULT_WORKERS,
		MaxSubsteps:   DEFAULT_MAX_SUBSTEPS,
		LogPrefix:     "plume",
	}
}

func (c Config) Validate() error {
	if !(c.FixedTimestep > 0) {
		return fmt.Errorf("fixed-timestep %v must be positive: %w", c.FixedTimestep, ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d must not be negative: %w", c.Workers, ErrInvalidConfig)
	}
	if c.MaxSubsteps < 0 {
		return fmt.Errorf("max-substeps %d must not be negative: %w", c.MaxSubsteps, ErrInvalidConfig)
	}
	return nil
}

// ParseConfig decodes HJSON on top of DefaultConfig.
func ParseConfig(data []byte) (conf Config, err error) {
	conf = DefaultConfig()

	var mdat map[string]interface{}
	if err = hjson.Unmarshal(data, &mdat); err != nil {
		return conf, err
	}
	bytes, err := json.Marshal(mdat)
	if err != nil {
		return conf, err
	}
	if err = json.Unmarshal(bytes, &conf); err != nil {
		return conf, err
	}
	return conf, conf.Validate()
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}
