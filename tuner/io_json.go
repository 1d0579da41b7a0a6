package tuner

import (
	"encoding/json"
	"fmt"
	"os"

	"hive-engine/engine"
)

const checkpointLayoutTag = "hive_treestrap_v1"

// Checkpoint is the resumable state of a TreeStrap run.
type Checkpoint struct {
	Layout   string    `json:"layout"`
	GameType string    `json:"game_type"`
	Weights  []float64 `json:"weights"`
	Adam     adamJSON  `json:"adam"`
	Games    int       `json:"games"`
	Updates  int       `json:"updates"`
	Samples  int       `json:"samples"`
}

type adamJSON struct {
	M  []float64 `json:"m"`
	V  []float64 `json:"v"`
	T  int       `json:"t"`
	LR float64   `json:"lr"`
}

// SaveCheckpoint writes to path.tmp and renames it over path.
func SaveCheckpoint(path string, cp *Checkpoint) error {
	cp.Layout = checkpointLayoutTag
	b, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func LoadCheckpoint(path string) (*Checkpoint, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cp Checkpoint
	if err := json.Unmarshal(b, &cp); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", path, err)
	}
	if cp.Layout != checkpointLayoutTag {
		return nil, fmt.Errorf("checkpoint %s has layout %q, want %q", path, cp.Layout, checkpointLayoutTag)
	}
	if len(cp.Weights) != engine.NumWeights {
		return nil, fmt.Errorf("checkpoint %s has %d weights, want %d", path, len(cp.Weights), engine.NumWeights)
	}
	return &cp, nil
}

func (cp *Checkpoint) restoreAdam(opt *Adam) {
	if len(cp.Adam.M) != len(opt.M) || len(cp.Adam.V) != len(opt.V) {
		return
	}
	copy(opt.M, cp.Adam.M)
	copy(opt.V, cp.Adam.V)
	opt.T = cp.Adam.T
}

func (cp *Checkpoint) captureAdam(opt *Adam) {
	cp.Adam = adamJSON{
		M:  append([]float64(nil), opt.M...),
		V:  append([]float64(nil), opt.V...),
		T:  opt.T,
		LR: opt.LR,
	}
}
