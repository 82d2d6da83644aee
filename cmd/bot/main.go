// A probe client: connects, wanders through open walls, joins any rubble
// wall job it can afford, and logs what happens. Useful for smoke-testing a
// running server.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chaindepth.gg/internal/protocol"
)

func main() {
	var (
		addr     = flag.String("addr", "ws://127.0.0.1:8080/ws", "server websocket url")
		name     = flag.String("name", "bot", "player name")
		duration = flag.Duration("duration", 30*time.Second, "how long to wander")
		interval = flag.Duration("interval", time.Second, "time between actions")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags)

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
	}); err != nil {
		logger.Fatalf("hello: %v", err)
	}
	var welcome protocol.WelcomeMsg
	if err := conn.ReadJSON(&welcome); err != nil {
		logger.Fatalf("welcome: %v", err)
	}
	logger.Printf("joined as %s, season %s seed %d",
		welcome.PlayerID, welcome.Season.SeasonID, welcome.Season.Seed)

	var mu sync.Mutex
	var last protocol.ObsMsg
	go func() {
		for {
			var obs protocol.ObsMsg
			if err := conn.ReadJSON(&obs); err != nil {
				logger.Printf("read: %v", err)
				return
			}
			for _, ev := range obs.Events {
				if ev["type"] == "ACTION_RESULT" && ev["ok"] != true {
					logger.Printf("rejected: %v", ev)
				}
			}
			mu.Lock()
			last = obs
			mu.Unlock()
		}
	}()

	directions := []string{"NORTH", "SOUTH", "EAST", "WEST"}
	deadline := time.Now().Add(*duration)
	seq := 0
	for time.Now().Before(deadline) {
		time.Sleep(*interval)
		mu.Lock()
		obs := last
		mu.Unlock()
		if obs.Type == "" {
			continue
		}

		var open, rubble []string
		for i, w := range obs.Room.Walls {
			switch w {
			case "OPEN":
				open = append(open, directions[i])
			case "RUBBLE":
				rubble = append(rubble, directions[i])
			}
		}

		seq++
		inst := protocol.InstantReq{ID: fmt.Sprintf("i%d", seq)}
		switch {
		case len(rubble) > 0 && len(obs.Self.ActiveJobs) == 0 &&
			obs.Self.Balance >= welcome.Season.StakeAmount:
			inst.Type = protocol.InstJoinJob
			inst.Direction = rubble[rand.Intn(len(rubble))]
		case len(open) > 0:
			inst.Type = protocol.InstMove
			inst.Direction = open[rand.Intn(len(open))]
		default:
			continue
		}
		logger.Printf("%s %s at (%d,%d)", inst.Type, inst.Direction, obs.Self.Pos[0], obs.Self.Pos[1])
		if err := conn.WriteJSON(protocol.ActMsg{
			Type:            protocol.TypeAct,
			ProtocolVersion: protocol.Version,
			Tick:            obs.Tick,
			PlayerID:        welcome.PlayerID,
			Instants:        []protocol.InstantReq{inst},
		}); err != nil {
			logger.Fatalf("act: %v", err)
		}
	}
	logger.Printf("done")
}
