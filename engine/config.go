package engine

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	gm "hive-engine/hivemg"
)

// ErrInvalidConfig is wrapped by every configuration error.
var ErrInvalidConfig = errors.New("invalid engine config")

const (
	DefaultMaxHelperThreads   = 32
	DefaultNodeCheckInterval  = 1024
	DefaultMaxTime            = 5 * time.Second
	DefaultTreeStrapRate      = 1e-5
	DefaultTreeStrapMaxSample = 4096
)

// Config holds the tunables of a GameAI.
type Config struct {
	// TranspositionTableMB is clamped to [MinTTSizeMB, MaxTTSizeMB].
	TranspositionTableMB int `yaml:"transposition_table_mb"`

	// HelperThreads is the number of workers besides the main one. -1 picks
	// (NumCPU/2)-1.
	HelperThreads    int `yaml:"helper_threads"`
	MaxHelperThreads int `yaml:"max_helper_threads"`

	// MaxBranchingFactor caps the moves searched below the root. 0 searches
	// every move.
	MaxBranchingFactor int `yaml:"max_branching_factor"`

	// MaxDepth and MaxTime bound a search when the caller does not. 0 is
	// unbounded.
	MaxDepth int           `yaml:"max_depth"`
	MaxTime  time.Duration `yaml:"max_time"`

	// NodeCheckInterval is rounded up to a power of two.
	NodeCheckInterval int `yaml:"node_check_interval"`

	TreeStrap TreeStrapConfig `yaml:"treestrap"`

	// Weights is keyed by game type string, e.g. "Base+MLP". Missing
	// entries fall back to the defaults.
	Weights map[string]WeightsConfig `yaml:"weights,omitempty"`
}

type TreeStrapConfig struct {
	LearningRate float64 `yaml:"learning_rate"`
	MaxSamples   int     `yaml:"max_samples"`
}

// WeightsConfig maps bug type -> metric -> coefficient for each phase.
type WeightsConfig struct {
	Start map[string]map[string]float64 `yaml:"start,omitempty"`
	End   map[string]map[string]float64 `yaml:"end,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		TranspositionTableMB: DefaultTTSizeMB,
		HelperThreads:        -1,
		MaxHelperThreads:     DefaultMaxHelperThreads,
		MaxBranchingFactor:   0,
		MaxDepth:             0,
		MaxTime:              DefaultMaxTime,
		NodeCheckInterval:    DefaultNodeCheckInterval,
		TreeStrap: TreeStrapConfig{
			LearningRate: DefaultTreeStrapRate,
			MaxSamples:   DefaultTreeStrapMaxSample,
		},
	}
}

// DefaultHelperThreads leaves half the machine to everything else.
func DefaultHelperThreads() int {
	return max(runtime.NumCPU()/2-1, 0)
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the defaults and normalizes the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Normalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Normalize clamps the numeric fields into range and rejects values that
// cannot be clamped sensibly.
func (c *Config) Normalize() error {
	c.TranspositionTableMB = Clamp(c.TranspositionTableMB, MinTTSizeMB, MaxTTSizeMB)
	c.MaxHelperThreads = max(c.MaxHelperThreads, 0)
	if c.HelperThreads < 0 {
		c.HelperThreads = DefaultHelperThreads()
	}
	c.HelperThreads = Clamp(c.HelperThreads, 0, c.MaxHelperThreads)
	c.MaxBranchingFactor = max(c.MaxBranchingFactor, 0)
	c.MaxDepth = Clamp(c.MaxDepth, 0, MaxPly-1)
	c.MaxTime = max(c.MaxTime, 0)
	if c.NodeCheckInterval <= 0 {
		c.NodeCheckInterval = DefaultNodeCheckInterval
	}
	c.NodeCheckInterval = 1 << bits.Len(uint(c.NodeCheckInterval-1))

	if c.TreeStrap.LearningRate < 0 {
		return fmt.Errorf("%w: treestrap.learning_rate must be >= 0", ErrInvalidConfig)
	}
	if c.TreeStrap.MaxSamples < 0 {
		return fmt.Errorf("%w: treestrap.max_samples must be >= 0", ErrInvalidConfig)
	}
	for name := range c.Weights {
		gt, err := gm.ParseGameType(name)
		if err != nil {
			return fmt.Errorf("%w: weights: %v", ErrInvalidConfig, err)
		}
		if _, err := c.WeightsFor(gt); err != nil {
			return err
		}
	}
	return nil
}

// WeightsFor overlays the configured coefficients for gt on the defaults.
func (c *Config) WeightsFor(gt gm.GameType) (MetricWeights, error) {
	w := DefaultMetricWeights()
	wc, ok := c.Weights[gt.String()]
	if !ok {
		for name, v := range c.Weights {
			if parsed, err := gm.ParseGameType(name); err == nil && parsed == gt {
				wc, ok = v, true
				break
			}
		}
	}
	if !ok {
		return w, nil
	}
	if err := overlayWeights(&w.Start, wc.Start); err != nil {
		return w, fmt.Errorf("%w: weights %s start: %v", ErrInvalidConfig, gt, err)
	}
	if err := overlayWeights(&w.End, wc.End); err != nil {
		return w, fmt.Errorf("%w: weights %s end: %v", ErrInvalidConfig, gt, err)
	}
	return w, nil
}

func overlayWeights(dst *[gm.NumBugTypes][gm.NumMetrics]float64, src map[string]map[string]float64) error {
	for bugName, metrics := range src {
		bt, err := gm.ParseBugType(bugName)
		if err != nil {
			return err
		}
		for metricName, v := range metrics {
			m, err := gm.ParseMetric(metricName)
			if err != nil {
				return err
			}
			dst[bt][m] = v
		}
	}
	return nil
}

func weightsToConfig(w MetricWeights) WeightsConfig {
	toMap := func(src *[gm.NumBugTypes][gm.NumMetrics]float64) map[string]map[string]float64 {
		out := make(map[string]map[string]float64, gm.NumBugTypes)
		for bt := gm.BugType(0); bt < gm.NumBugTypes; bt++ {
			metrics := make(map[string]float64, gm.NumMetrics)
			for m := gm.Metric(0); m < gm.NumMetrics; m++ {
				metrics[m.String()] = src[bt][m]
			}
			out[bt.String()] = metrics
		}
		return out
	}
	return WeightsConfig{Start: toMap(&w.Start), End: toMap(&w.End)}
}

type weightsFile struct {
	Weights map[string]WeightsConfig `yaml:"weights"`
}

// SaveWeights writes w as a config fragment that LoadConfig accepts.
func SaveWeights(path string, gt gm.GameType, w MetricWeights) error {
	data, err := yaml.Marshal(weightsFile{Weights: map[string]WeightsConfig{gt.String(): weightsToConfig(w)}})
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write weights: %w", err)
	}
	return nil
}

// LoadWeights reads the weights for gt from a config or weights file.
func LoadWeights(path string, gt gm.GameType) (MetricWeights, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return MetricWeights{}, err
	}
	return cfg.WeightsFor(gt)
}
