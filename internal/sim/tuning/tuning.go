package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz          int    `yaml:"tick_rate_hz"`
	SeasonDurationTicks uint64 `yaml:"season_duration_ticks"`
	SnapshotEveryTicks  int    `yaml:"snapshot_every_ticks"`

	Grid    Grid    `yaml:"grid"`
	Economy Economy `yaml:"economy"`
	Jobs    Jobs    `yaml:"jobs"`
	Bosses  Bosses  `yaml:"bosses"`
	Loot    Loot    `yaml:"loot"`
}

type Grid struct {
	MinCoord int `yaml:"min_coord"`
	MaxCoord int `yaml:"max_coord"`
	StartX   int `yaml:"start_x"`
	StartY   int `yaml:"start_y"`
}

type Economy struct {
	StakeAmount      uint64 `yaml:"stake_amount"`
	MinTip           uint64 `yaml:"min_tip"`
	StartingBalance  uint64 `yaml:"starting_balance"`
	PrizePoolFunding uint64 `yaml:"prize_pool_funding"`
}

type Jobs struct {
	BaseTicksDepth0      uint64 `yaml:"base_ticks_depth_0"`
	AbandonRefundPercent uint64 `yaml:"abandon_refund_percent"`
	MaxActiveJobs        int    `yaml:"max_active_jobs"`
}

type Bosses struct {
	BaseHP         uint64 `yaml:"base_hp"`
	MaxHP          uint64 `yaml:"max_hp"`
	BaseFighterDPS uint64 `yaml:"base_fighter_dps"`
}

type Loot struct {
	MaxLooters        int `yaml:"max_looters"`
	MaxInventorySlots int `yaml:"max_inventory_slots"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.fillDefaults()
	return t, nil
}

// Defaults mirrors configs/tuning.yaml for runs without a config file
// (snapshot resumes, tests).
func Defaults() Tuning {
	var t Tuning
	t.fillDefaults()
	return t
}

func (t *Tuning) fillDefaults() {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 5
	}
	if t.SeasonDurationTicks == 0 {
		t.SeasonDurationTicks = 1_512_000 // ~2 weeks at 400ms/tick
	}
	if t.SnapshotEveryTicks <= 0 {
		t.SnapshotEveryTicks = 3000
	}
	if t.Grid.MaxCoord == 0 {
		t.Grid.MinCoord = 0
		t.Grid.MaxCoord = 10
		t.Grid.StartX = 5
		t.Grid.StartY = 5
	}
	if t.Economy.StakeAmount == 0 {
		t.Economy.StakeAmount = 10_000_000
	}
	if t.Economy.MinTip == 0 {
		t.Economy.MinTip = 1_000_000
	}
	if t.Economy.StartingBalance == 0 {
		t.Economy.StartingBalance = 100_000_000
	}
	if t.Economy.PrizePoolFunding == 0 {
		t.Economy.PrizePoolFunding = 1_000_000_000
	}
	if t.Jobs.BaseTicksDepth0 == 0 {
		t.Jobs.BaseTicksDepth0 = 300
	}
	if t.Jobs.AbandonRefundPercent == 0 {
		t.Jobs.AbandonRefundPercent = 80
	}
	if t.Jobs.MaxActiveJobs <= 0 {
		t.Jobs.MaxActiveJobs = 3
	}
	if t.Bosses.BaseHP == 0 {
		t.Bosses.BaseHP = 300
	}
	if t.Bosses.MaxHP == 0 {
		t.Bosses.MaxHP = 100_000
	}
	if t.Bosses.BaseFighterDPS == 0 {
		t.Bosses.BaseFighterDPS = 50
	}
	if t.Loot.MaxLooters <= 0 {
		t.Loot.MaxLooters = 10
	}
	if t.Loot.MaxInventorySlots <= 0 {
		t.Loot.MaxInventorySlots = 64
	}
}
