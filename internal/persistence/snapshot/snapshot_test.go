package snapshot

import (
	"os"
	"path/filepath"
	"testing"
)

type payload struct {
	SeasonID string            `json:"season_id"`
	Tick     uint64            `json:"tick"`
	Accounts map[string]uint64 `json:"accounts"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "season.snap")
	in := payload{
		SeasonID: "s1",
		Tick:     1234,
		Accounts: map[string]uint64{"P1": 99, "sys:prize_pool": 1_000_000},
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	var out payload
	if err := Load(path, &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.SeasonID != in.SeasonID || out.Tick != in.Tick || out.Accounts["P1"] != 99 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "season.snap")
	if err := Save(path, payload{SeasonID: "s1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file renamed away, stat err=%v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "nope.snap"), &payload{})
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.snap")
	if err := os.WriteFile(path, []byte("not a snapshot"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Load(path, &payload{}); err == nil {
		t.Fatalf("expected decode error")
	}
}
