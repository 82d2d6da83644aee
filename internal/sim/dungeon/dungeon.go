package dungeon

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/gen"
	"chaindepth.gg/internal/sim/tuning"
)

// Config bundles everything New needs to start (or resume) a season.
type Config struct {
	SeasonID string
	Seed     uint64
	Tuning   tuning.Tuning

	// Logger receives engine diagnostics. nil disables logging.
	Logger *log.Logger

	// Sink receives every domain event for indexing. nil discards.
	Sink EventSink

	// OnSnapshot, when set, is called from the loop goroutine every
	// SnapshotEveryTicks with a full season export.
	OnSnapshot func(SeasonExport)
}

// JoinRequest asks the loop to admit (or re-attach) a client.
type JoinRequest struct {
	Name  string
	Token string // resume token; empty means new player
	Out   chan protocol.ObsMsg
	Resp  chan JoinResponse
}

type JoinResponse struct {
	PlayerID string
	Welcome  protocol.WelcomeMsg
	Err      error
}

// ActEnvelope is one ACT message attributed to the connection's player.
type ActEnvelope struct {
	PlayerID string
	Act      protocol.ActMsg
}

type client struct {
	playerID string
	out      chan protocol.ObsMsg
}

// Dungeon is the authoritative season engine. A single goroutine owns all of
// its state; transports and tests reach it through the join/act/leave
// channels plus StepOnce.
type Dungeon struct {
	seasonID string
	seed     uint64
	tun      tuning.Tuning
	log      *log.Logger
	sinkFn   EventSink
	onSnap   func(SeasonExport)

	tick    uint64
	endTick uint64

	rooms    *RoomStore
	players  map[string]*Player
	byToken  map[string]*Player
	clients  map[string]*client
	sessions map[sessionKey]*SessionAuthority
	stakes   map[JobKey]map[string]*HelperStake
	ledger   *Ledger

	depth         int
	jobsCompleted uint64
	nextPlayerNum uint64

	joins  chan JoinRequest
	acts   chan ActEnvelope
	leaves chan string
}

// New starts a fresh season at tick 0: start room materialized, prize pool
// funded, season end scheduled.
func New(cfg Config) (*Dungeon, error) {
	if cfg.SeasonID == "" {
		return nil, fmt.Errorf("dungeon: season id required")
	}
	d := newEmpty(cfg)
	d.endTick = d.tun.SeasonDurationTicks
	d.rooms.Put(d.startRoom(0))
	if err := d.ledger.Mint(AccountPrizePool, d.tun.Economy.PrizePoolFunding); err != nil {
		return nil, err
	}
	d.sink(evSeasonStarted(d.seasonID, d.seed, d.startWalls()))
	d.logf("[season] %s started seed=%d end_tick=%d", d.seasonID, d.seed, d.endTick)
	return d, nil
}

func newEmpty(cfg Config) *Dungeon {
	return &Dungeon{
		seasonID: cfg.SeasonID,
		seed:     cfg.Seed,
		tun:      cfg.Tuning,
		log:      cfg.Logger,
		sinkFn:   cfg.Sink,
		onSnap:   cfg.OnSnapshot,
		rooms:    NewRoomStore(),
		players:  make(map[string]*Player),
		byToken:  make(map[string]*Player),
		clients:  make(map[string]*client),
		sessions: make(map[sessionKey]*SessionAuthority),
		stakes:   make(map[JobKey]map[string]*HelperStake),
		ledger:   NewLedger(),
		joins:    make(chan JoinRequest, 64),
		acts:     make(chan ActEnvelope, 1024),
		leaves:   make(chan string, 64),
	}
}

// Channel accessors for transports.
func (d *Dungeon) Joins() chan<- JoinRequest { return d.joins }
func (d *Dungeon) Acts() chan<- ActEnvelope  { return d.acts }
func (d *Dungeon) Leaves() chan<- string     { return d.leaves }

func (d *Dungeon) SeasonID() string { return d.seasonID }
func (d *Dungeon) Seed() uint64     { return d.seed }
func (d *Dungeon) Tick() uint64     { return d.tick }

// Run drives the loop at the configured tick rate until ctx is done. All
// state mutation happens on this goroutine.
func (d *Dungeon) Run(ctx context.Context) {
	interval := time.Second / time.Duration(d.tun.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.logf("[season] %s stopping at tick %d", d.seasonID, d.tick)
			return
		case <-ticker.C:
			d.StepOnce()
			if d.onSnap != nil && d.tun.SnapshotEveryTicks > 0 &&
				d.tick%uint64(d.tun.SnapshotEveryTicks) == 0 {
				d.onSnap(d.Export())
			}
		}
	}
}

// StepOnce advances exactly one tick: admit joins, drop leavers, apply
// queued acts in arrival order, then push one OBS frame per connected
// client. Tests call it directly instead of Run.
func (d *Dungeon) StepOnce() {
	d.tick++
	now := d.tick

	for {
		select {
		case req := <-d.joins:
			d.handleJoin(req, now)
			continue
		case id := <-d.leaves:
			delete(d.clients, id)
			continue
		default:
		}
		break
	}

	for {
		select {
		case env := <-d.acts:
			d.applyAct(env, now)
			continue
		default:
		}
		break
	}

	for _, c := range d.clients {
		p, ok := d.players[c.playerID]
		if !ok {
			continue
		}
		obs := d.buildObs(p, now)
		select {
		case c.out <- obs:
		default:
			// Slow consumer: drop the frame rather than stall the loop.
		}
	}
}

func (d *Dungeon) handleJoin(req JoinRequest, now uint64) {
	var p *Player
	if req.Token != "" {
		existing, ok := d.byToken[req.Token]
		if !ok {
			req.Resp <- JoinResponse{Err: errf(protocol.ErrUnauthorized, "unknown resume token")}
			return
		}
		p = existing
	} else {
		p = d.newPlayer(req.Name, now)
	}
	d.clients[p.ID] = &client{playerID: p.ID, out: req.Out}
	req.Resp <- JoinResponse{PlayerID: p.ID, Welcome: d.welcome(p)}
}

func (d *Dungeon) newPlayer(name string, now uint64) *Player {
	d.nextPlayerNum++
	p := &Player{
		ID:          "P" + strconv.FormatUint(d.nextPlayerNum, 10),
		Name:        name,
		ResumeToken: uuid.NewString(),
		X:           d.tun.Grid.StartX,
		Y:           d.tun.Grid.StartY,
	}
	d.players[p.ID] = p
	d.byToken[p.ResumeToken] = p
	if err := d.ledger.Mint(p.ID, d.tun.Economy.StartingBalance); err != nil {
		d.logf("[join] funding %s: %v", p.ID, err)
	}
	d.logf("[join] %s (%s) at tick %d", p.ID, name, now)
	return p
}

func (d *Dungeon) welcome(p *Player) protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		PlayerID:        p.ID,
		ResumeToken:     p.ResumeToken,
		Season: protocol.SeasonParams{
			SeasonID:    d.seasonID,
			Seed:        d.seed,
			TickRateHz:  d.tun.TickRateHz,
			MinCoord:    d.tun.Grid.MinCoord,
			MaxCoord:    d.tun.Grid.MaxCoord,
			StartX:      d.tun.Grid.StartX,
			StartY:      d.tun.Grid.StartY,
			EndTick:     d.endTick,
			StakeAmount: d.tun.Economy.StakeAmount,
		},
	}
}

func (d *Dungeon) startWalls() [4]gen.WallState {
	r := d.rooms.Get(Coord{X: d.tun.Grid.StartX, Y: d.tun.Grid.StartY})
	return r.Walls
}

func (d *Dungeon) sink(ev protocol.Event) {
	if d.sinkFn != nil {
		d.sinkFn.SinkEvent(d.tick, ev)
	}
}

func (d *Dungeon) logf(format string, args ...interface{}) {
	if d.log != nil {
		d.log.Printf(format, args...)
	}
}
