package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/config"
	diag "github.com/coreman2200/funtimes-spellcast/internal/diagnostics"
	"github.com/coreman2200/funtimes-spellcast/internal/layout"
)

var errBadRequest = errors.New("bad request")

// diagBacklog is how many diagnostics a new diag client is replayed.
const diagBacklog = 32

// Control is the command side of the host loop.
type Control interface {
	Cast(spell string) error
	Trigger(name string) error
	SetBrightness(v float64)
	RunTest(name string) error
}

// Server fans out telemetry to websocket clients.
type Server struct {
	Layout layout.Layout
	Driver string
	FPS    int

	ctl Control
	log zerolog.Logger

	frames *hub
	states *hub
	diags  *hub

	mu      sync.Mutex
	frameID uint64
	start   time.Time
	state   []byte
	backlog []diag.Diagnostic

	upgrader websocket.Upgrader
}

func NewServer(l layout.Layout, ctl Control, log zerolog.Logger) *Server {
	return &Server{
		Layout: l,
		ctl:    ctl,
		log:    log,
		frames: newHub("frames", log),
		states: newHub("state", log),
		diags:  newHub("diag", log),
		start:  time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Router wires the HTTP and websocket endpoints.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.HandleHealth).Methods("GET")
	r.HandleFunc("/api/state", s.HandleState).Methods("GET")
	r.HandleFunc("/api/schema", s.HandleSchema).Methods("GET")
	r.HandleFunc("/api/cast/{spell}", s.HandleCast).Methods("POST")
	r.HandleFunc("/api/trigger/{name}", s.HandleTrigger).Methods("POST")
	r.HandleFunc("/api/test/{pattern}", s.HandleTest).Methods("POST")
	r.HandleFunc("/ws/frames", s.HandleFramesWS)
	r.HandleFunc("/ws/state", s.HandleStateWS)
	r.HandleFunc("/ws/diag", s.HandleDiagWS)
	r.HandleFunc("/ws/control", s.HandleControlWS)
	return r
}

// PublishFrame sends one RGB frame to frame clients.
func (s *Server) PublishFrame(rgb []byte) {
	s.mu.Lock()
	s.frameID++
	id := s.frameID
	s.mu.Unlock()
	if s.frames.len() == 0 {
		return
	}
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, err := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: id, RGB: rgb})
	if err != nil {
		s.log.Error().Err(err).Msg("marshal frame")
		return
	}
	s.frames.broadcast(b)
}

// PublishState stores v as the current cast state and sends it to state
// clients.
func (s *Server) PublishState(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal state")
		return
	}
	s.mu.Lock()
	s.state = b
	s.mu.Unlock()
	s.states.broadcast(b)
}

func (s *Server) PushDiag(d diag.Diagnostic) {
	s.mu.Lock()
	s.backlog = append(s.backlog, d)
	if len(s.backlog) > diagBacklog {
		s.backlog = s.backlog[len(s.backlog)-diagBacklog:]
	}
	s.mu.Unlock()

	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	s.diags.broadcast(b)
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade frames")
		return
	}
	c := s.frames.add(conn)
	if err := c.write(s.topology()); err != nil {
		s.frames.remove(c)
		return
	}
	go s.frames.drain(c)
}

func (s *Server) HandleStateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade state")
		return
	}
	c := s.states.add(conn)
	s.mu.Lock()
	last := s.state
	s.mu.Unlock()
	if last == nil {
		last = []byte("null")
	}
	if err := c.write(last); err != nil {
		s.states.remove(c)
		return
	}
	go s.states.drain(c)
}

// HandleDiagWS replays recent diagnostics, then streams new ones.
func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade diag")
		return
	}
	c := s.diags.add(conn)
	s.mu.Lock()
	replay := append([]diag.Diagnostic(nil), s.backlog...)
	s.mu.Unlock()
	for _, d := range replay {
		b, _ := json.Marshal(d)
		if err := c.write(b); err != nil {
			s.diags.remove(c)
			return
		}
	}
	go s.diags.drain(c)
}

type controlMsg struct {
	Cast       string   `json:"cast,omitempty"`
	Trigger    string   `json:"trigger,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
	RunTest    string   `json:"runTest,omitempty"`
}

type controlReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// HandleControlWS applies one command per message and answers each with a
// controlReply.
func (s *Server) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade control")
		return
	}
	c := &client{conn: conn}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		reply := controlReply{OK: true}
		var msg controlMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = controlReply{Error: "bad message: " + err.Error()}
		} else if err := s.apply(msg); err != nil {
			reply = controlReply{Error: err.Error()}
		}
		b, _ := json.Marshal(reply)
		if err := c.write(b); err != nil {
			return
		}
	}
}

func (s *Server) apply(msg controlMsg) error {
	if msg.Brightness != nil {
		s.ctl.SetBrightness(clamp(*msg.Brightness, 0, 1))
	}
	if msg.RunTest != "" {
		if err := s.ctl.RunTest(msg.RunTest); err != nil {
			return err
		}
	}
	if msg.Trigger != "" {
		if err := s.ctl.Trigger(msg.Trigger); err != nil {
			return err
		}
	}
	if msg.Cast != "" {
		return s.ctl.Cast(msg.Cast)
	}
	return nil
}

func (s *Server) HandleCast(w http.ResponseWriter, r *http.Request) {
	s.reply(w, s.ctl.Cast(mux.Vars(r)["spell"]))
}

func (s *Server) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	s.reply(w, s.ctl.Trigger(mux.Vars(r)["name"]))
}

func (s *Server) HandleTest(w http.ResponseWriter, r *http.Request) {
	err := s.ctl.RunTest(mux.Vars(r)["pattern"])
	if err != nil {
		err = fmt.Errorf("%w: %w", errBadRequest, err)
	}
	s.reply(w, err)
}

func (s *Server) reply(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(statusFor(err))
		_ = json.NewEncoder(w).Encode(controlReply{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(controlReply{OK: true})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cast.ErrUnknownSpell):
		return http.StatusNotFound
	case errors.Is(err, cast.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, cast.ErrNoAnimator):
		return http.StatusServiceUnavailable
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	b := s.state
	s.mu.Unlock()
	if b == nil {
		b = []byte("null")
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (s *Server) HandleSchema(w http.ResponseWriter, r *http.Request) {
	b, err := config.SchemaJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(b)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.start).Seconds(),
		"count":    s.Layout.Count(),
		"fps":      s.FPS,
		"driver":   s.Driver,
		"clients":  s.frames.len() + s.states.len() + s.diags.len(),
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) topology() []byte {
	top := map[string]any{
		"dim":        map[string]int{"x": s.Layout.Dim.X, "y": s.Layout.Dim.Y, "z": s.Layout.Dim.Z},
		"order":      map[string]bool{"xFlipEveryRow": s.Layout.Order.XFlipEveryRow, "yFlipEveryPanel": s.Layout.Order.YFlipEveryPanel},
		"panelGapMM": s.Layout.PanelGapMM,
		"pitchMM":    s.Layout.PitchMM,
		"driver":     s.Driver,
	}
	b, _ := json.Marshal(top)
	return b
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
