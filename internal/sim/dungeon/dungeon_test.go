package dungeon

import (
	"testing"

	"chaindepth.gg/internal/protocol"
)

func joinClient(t *testing.T, d *Dungeon, name, token string) (JoinResponse, chan protocol.ObsMsg) {
	t.Helper()
	out := make(chan protocol.ObsMsg, 16)
	resp := make(chan JoinResponse, 1)
	d.Joins() <- JoinRequest{Name: name, Token: token, Out: out, Resp: resp}
	d.StepOnce()
	r := <-resp
	return r, out
}

func lastObs(t *testing.T, out chan protocol.ObsMsg) protocol.ObsMsg {
	t.Helper()
	var obs protocol.ObsMsg
	got := false
	for {
		select {
		case obs = <-out:
			got = true
			continue
		default:
		}
		break
	}
	if !got {
		t.Fatalf("expected at least one OBS frame")
	}
	return obs
}

func TestJoinWelcomeAndObs(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	r, out := joinClient(t, d, "alice", "")
	if r.Err != nil {
		t.Fatalf("join: %v", r.Err)
	}
	w := r.Welcome
	if w.Type != protocol.TypeWelcome || w.ProtocolVersion != protocol.Version {
		t.Fatalf("bad welcome envelope: %+v", w)
	}
	if w.Season.Seed != testSeed || w.Season.StartX != 5 || w.Season.StartY != 5 {
		t.Fatalf("bad season params: %+v", w.Season)
	}
	if w.ResumeToken == "" {
		t.Fatalf("expected a resume token")
	}
	obs := lastObs(t, out)
	if obs.PlayerID != r.PlayerID || obs.Self.Pos != [2]int{5, 5} {
		t.Fatalf("bad first obs: %+v", obs)
	}
	if obs.Self.Balance != d.tun.Economy.StartingBalance {
		t.Fatalf("expected starting balance, got %d", obs.Self.Balance)
	}
}

func TestActProducesActionResult(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	r, out := joinClient(t, d, "alice", "")
	if r.Err != nil {
		t.Fatalf("join: %v", r.Err)
	}
	d.Acts() <- ActEnvelope{PlayerID: r.PlayerID, Act: protocol.ActMsg{
		Instants: []protocol.InstantReq{
			{ID: "i1", Type: protocol.InstMove, Direction: "NORTH"},
			{ID: "i2", Type: protocol.InstMove, Direction: "WEST"},
		},
	}}
	d.StepOnce()
	obs := lastObs(t, out)

	results := map[string]protocol.Event{}
	for _, ev := range obs.Events {
		if ev["type"] == EvActionResult {
			results[ev["id"].(string)] = ev
		}
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 action results, got %+v", obs.Events)
	}
	if results["i1"]["ok"] != true {
		t.Fatalf("expected i1 ok, got %+v", results["i1"])
	}
	if results["i2"]["ok"] != false {
		t.Fatalf("expected i2 failed, got %+v", results["i2"])
	}
	if code, _ := results["i2"]["code"].(string); !protocol.IsKnownCode(code) || code == "" {
		t.Fatalf("expected a known error code, got %+v", results["i2"])
	}
}

func TestResumeWithToken(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	r1, _ := joinClient(t, d, "alice", "")
	if r1.Err != nil {
		t.Fatalf("join: %v", r1.Err)
	}
	d.Leaves() <- r1.PlayerID
	r2, _ := joinClient(t, d, "alice", r1.Welcome.ResumeToken)
	if r2.Err != nil {
		t.Fatalf("resume: %v", r2.Err)
	}
	if r2.PlayerID != r1.PlayerID {
		t.Fatalf("resume must reattach the same player: %s vs %s", r1.PlayerID, r2.PlayerID)
	}
}

func TestResumeUnknownToken(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	r, _ := joinClient(t, d, "alice", "bogus")
	if CodeOf(r.Err) != protocol.ErrUnauthorized {
		t.Fatalf("expected E_UNAUTHORIZED, got %v", r.Err)
	}
}
