package dungeon

import (
	"testing"

	"chaindepth.gg/internal/sim/tuning"
)

// Seed 2 gives the start room open north/east walls and rubble south/west,
// which most tests below lean on.
const testSeed = 2

func newTestDungeon(t *testing.T, seed uint64) *Dungeon {
	t.Helper()
	d, err := New(Config{SeasonID: "test-season", Seed: seed, Tuning: tuning.Defaults()})
	if err != nil {
		t.Fatalf("new dungeon: %v", err)
	}
	return d
}

func addPlayer(d *Dungeon, name string) *Player {
	return d.newPlayer(name, d.tick)
}
