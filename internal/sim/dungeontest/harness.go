// Package dungeontest drives the engine through its public channel API the
// way a transport would, so integration tests cover the same paths real
// clients hit.
package dungeontest

import (
	"testing"

	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/dungeon"
	"chaindepth.gg/internal/sim/tuning"
)

type Harness struct {
	T *testing.T
	D *dungeon.Dungeon
}

type Client struct {
	ID      string
	Welcome protocol.WelcomeMsg
	out     chan protocol.ObsMsg
	frames  []protocol.ObsMsg
}

// Option tweaks the engine under test.
type Option func(*dungeon.Config)

func WithSeed(seed uint64) Option {
	return func(c *dungeon.Config) { c.Seed = seed }
}

func WithTuning(tun tuning.Tuning) Option {
	return func(c *dungeon.Config) { c.Tuning = tun }
}

func WithSink(sink dungeon.EventSink) Option {
	return func(c *dungeon.Config) { c.Sink = sink }
}

func New(t *testing.T, opts ...Option) *Harness {
	t.Helper()
	cfg := dungeon.Config{
		SeasonID: "harness-season",
		Seed:     2,
		Tuning:   tuning.Defaults(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	d, err := dungeon.New(cfg)
	if err != nil {
		t.Fatalf("harness: new engine: %v", err)
	}
	return &Harness{T: t, D: d}
}

// Step advances the engine n ticks, processing anything queued.
func (h *Harness) Step(n int) {
	for i := 0; i < n; i++ {
		h.D.StepOnce()
	}
}

// Join admits a new player and steps once to process it.
func (h *Harness) Join(name string) *Client {
	h.T.Helper()
	c := &Client{out: make(chan protocol.ObsMsg, 256)}
	resp := make(chan dungeon.JoinResponse, 1)
	h.D.Joins() <- dungeon.JoinRequest{Name: name, Out: c.out, Resp: resp}
	h.D.StepOnce()
	r := <-resp
	if r.Err != nil {
		h.T.Fatalf("harness: join %s: %v", name, r.Err)
	}
	c.ID = r.PlayerID
	c.Welcome = r.Welcome
	return c
}

// Act queues instants for the client and steps once.
func (h *Harness) Act(c *Client, instants ...protocol.InstantReq) {
	h.D.Acts() <- dungeon.ActEnvelope{
		PlayerID: c.ID,
		Act: protocol.ActMsg{
			Type:            protocol.TypeAct,
			ProtocolVersion: protocol.Version,
			Tick:            h.D.Tick(),
			Instants:        instants,
		},
	}
	h.D.StepOnce()
}

// drain pulls every pending OBS frame into the client's history.
func (c *Client) drain() {
	for {
		select {
		case obs := <-c.out:
			c.frames = append(c.frames, obs)
			continue
		default:
		}
		break
	}
}

// LastObs returns the most recent observation for the client, stepping once
// to force a fresh frame if none is pending.
func (h *Harness) LastObs(c *Client) protocol.ObsMsg {
	h.T.Helper()
	c.drain()
	if len(c.frames) == 0 {
		h.D.StepOnce()
		c.drain()
	}
	if len(c.frames) == 0 {
		h.T.Fatalf("harness: no OBS frames for %s", c.ID)
	}
	return c.frames[len(c.frames)-1]
}

// Results collects ACTION_RESULT events seen since the last call, by
// instant id.
func (h *Harness) Results(c *Client) map[string]protocol.Event {
	h.T.Helper()
	c.drain()
	out := map[string]protocol.Event{}
	for _, obs := range c.frames {
		for _, ev := range obs.Events {
			if ev["type"] == "ACTION_RESULT" {
				if id, ok := ev["id"].(string); ok {
					out[id] = ev
				}
			}
		}
	}
	c.frames = nil
	return out
}

// MustOK asserts that the identified instant succeeded.
func (h *Harness) MustOK(c *Client, id string) {
	h.T.Helper()
	res, ok := h.Results(c)[id]
	if !ok {
		h.T.Fatalf("harness: no result for %s", id)
	}
	if res["ok"] != true {
		h.T.Fatalf("harness: %s failed: %+v", id, res)
	}
}

// MustFail asserts that the identified instant failed with the given code.
func (h *Harness) MustFail(c *Client, id, code string) {
	h.T.Helper()
	res, ok := h.Results(c)[id]
	if !ok {
		h.T.Fatalf("harness: no result for %s", id)
	}
	if res["ok"] != false {
		h.T.Fatalf("harness: expected %s to fail, got %+v", id, res)
	}
	if got, _ := res["code"].(string); got != code {
		h.T.Fatalf("harness: expected %s code %s, got %+v", id, code, res)
	}
}
