package games

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed plinko_tables.json
var plinkoTablesJSON []byte

// PlinkoDifficulty carries a difficulty's payout table, the independent
// risk-roll chance, and the board geometry and bias constants that shape
// where balls land. The center-gravity, edge-repulsion, and jitter terms are
// nonzero only on hard.
type PlinkoDifficulty struct {
	Name            string    `json:"name"`
	Multipliers     []float64 `json:"multipliers"`
	RiskChance      float64   `json:"riskChance"`
	PegRows         int       `json:"pegRows"`
	PegSize         float64   `json:"pegSize"`
	PegSpacing      float64   `json:"pegSpacing"`
	BounceIntensity float64   `json:"bounceIntensity"`
	CenterGravity   float64   `json:"centerGravity"`
	EdgeRepulsion   float64   `json:"edgeRepulsion"`
	BounceJitter    float64   `json:"bounceJitter"`
	CenterBias      float64   `json:"centerBias"`
}

var plinkoDifficulties = loadPlinkoDifficulties()

func loadPlinkoDifficulties() map[string]PlinkoDifficulty {
	raw := map[string]PlinkoDifficulty{}
	if err := json.Unmarshal(plinkoTablesJSON, &raw); err != nil {
		panic(fmt.Sprintf("failed to parse plinko difficulty tables: %v", err))
	}

	for id, cfg := range raw {
		if id == "" {
			panic("encountered empty difficulty key in plinko tables")
		}
		if len(cfg.Multipliers) != plinkoSlotCount {
			panic(fmt.Sprintf("plinko table mismatch for difficulty %q: expected %d multipliers, got %d", id, plinkoSlotCount, len(cfg.Multipliers)))
		}
		if cfg.RiskChance < 0 || cfg.RiskChance >= 1 {
			panic(fmt.Sprintf("plinko risk chance out of range for difficulty %q: %f", id, cfg.RiskChance))
		}
		if cfg.PegRows <= 0 || cfg.PegSpacing <= 0 || cfg.BounceIntensity <= 0 {
			panic(fmt.Sprintf("invalid board geometry for difficulty %q", id))
		}
	}

	return raw
}

func plinkoDifficulty(id string) (PlinkoDifficulty, error) {
	cfg, ok := plinkoDifficulties[id]
	if !ok {
		return PlinkoDifficulty{}, fmt.Errorf("%w: unknown plinko difficulty %q", ErrInvalidConfiguration, id)
	}
	return cfg, nil
}

// PlinkoDifficulties lists the available difficulty IDs in sorted order.
func PlinkoDifficulties() []string {
	ids := make([]string, 0, len(plinkoDifficulties))
	for id := range plinkoDifficulties {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PlinkoDifficultyConfig returns the table for a difficulty ID.
func PlinkoDifficultyConfig(id string) (PlinkoDifficulty, error) {
	return plinkoDifficulty(id)
}
