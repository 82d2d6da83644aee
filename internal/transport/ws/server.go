// Package ws exposes the engine over a WebSocket endpoint. Each connection
// performs a HELLO/WELCOME handshake, then streams ACT messages in and OBS
// frames out. The transport owns no game state; it only shuttles messages
// between the socket and the engine's channels.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/dungeon"
)

const (
	helloTimeout  = 10 * time.Second
	joinTimeout   = 5 * time.Second
	writeTimeout  = 10 * time.Second
	pongTimeout   = 60 * time.Second
	pingInterval  = 25 * time.Second
	maxMessageLen = 1 << 20
	obsBuffer     = 64
)

type Server struct {
	engine   *dungeon.Dungeon
	log      *log.Logger
	upgrader websocket.Upgrader
}

func NewServer(engine *dungeon.Dungeon, logger *log.Logger) *Server {
	return &Server{
		engine: engine,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP mux serving the game socket and a health probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type errorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logf("[ws] upgrade: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageLen)

	hello, err := s.readHello(conn)
	if err != nil {
		s.reject(conn, protocol.ErrProtoBadRequest, err.Error())
		return
	}

	out := make(chan protocol.ObsMsg, obsBuffer)
	resp := make(chan dungeon.JoinResponse, 1)
	var token string
	if hello.Auth != nil {
		token = hello.Auth.Token
	}
	s.engine.Joins() <- dungeon.JoinRequest{
		Name:  hello.PlayerName,
		Token: token,
		Out:   out,
		Resp:  resp,
	}

	var joined dungeon.JoinResponse
	select {
	case joined = <-resp:
	case <-time.After(joinTimeout):
		s.reject(conn, protocol.ErrInternal, "join timed out")
		return
	}
	if joined.Err != nil {
		s.reject(conn, dungeon.CodeOf(joined.Err), joined.Err.Error())
		return
	}
	if err := s.writeJSON(conn, joined.Welcome); err != nil {
		s.engine.Leaves() <- joined.PlayerID
		return
	}
	s.logf("[ws] %s connected (%s)", joined.PlayerID, hello.PlayerName)

	done := make(chan struct{})
	go s.writeLoop(conn, out, done)
	s.readLoop(conn, joined.PlayerID)
	close(done)
	s.engine.Leaves() <- joined.PlayerID
	s.logf("[ws] %s disconnected", joined.PlayerID)
}

func (s *Server) readHello(conn *websocket.Conn) (*protocol.HelloMsg, error) {
	conn.SetReadDeadline(time.Now().Add(helloTimeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(raw, &hello); err != nil {
		return nil, err
	}
	if hello.Type != protocol.TypeHello {
		return nil, &dungeon.Error{Code: protocol.ErrProtoBadRequest, Message: "expected HELLO"}
	}
	if hello.ProtocolVersion != protocol.Version {
		return nil, &dungeon.Error{Code: protocol.ErrProtoBadRequest, Message: "protocol version mismatch"}
	}
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	return &hello, nil
}

func (s *Server) readLoop(conn *websocket.Conn, playerID string) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(raw)
		if err != nil || base.Type != protocol.TypeAct {
			continue
		}
		var act protocol.ActMsg
		if err := json.Unmarshal(raw, &act); err != nil {
			continue
		}
		// A connection only ever acts as the player it joined as.
		s.engine.Acts() <- dungeon.ActEnvelope{PlayerID: playerID, Act: act}
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, out <-chan protocol.ObsMsg, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case obs := <-out:
			if err := s.writeJSON(conn, obs); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(v)
}

func (s *Server) reject(conn *websocket.Conn, code, msg string) {
	s.writeJSON(conn, errorMsg{Type: "ERROR", Code: code, Message: msg})
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}
