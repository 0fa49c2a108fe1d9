// Package api serves the snake to the game server over HTTP and exposes the
// recorded games for debugging.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/battlesnakeio/zerocool/config"
	"github.com/battlesnakeio/zerocool/controller"
	"github.com/battlesnakeio/zerocool/strategy"
	"github.com/battlesnakeio/zerocool/version"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

// Server is the HTTP server of the snake.
type Server struct {
	hs       *http.Server
	ctrl     *controller.Controller
	limiter  *rate.Limiter
	latency  time.Duration
	upgrader websocket.Upgrader
}

// New creates a server listening on addr.
func New(addr string, ctrl *controller.Controller) *Server {
	s := &Server{
		ctrl:    ctrl,
		limiter: rate.NewLimiter(config.StartRate, config.StartBurstRate),
		latency: config.LatencyBuffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	router := httprouter.New()
	router.GET("/", s.info)
	router.POST("/", s.info)
	router.POST("/ping", s.ping)
	router.POST("/start", s.start)
	router.POST("/move", s.move)
	router.POST("/end", s.end)
	router.GET("/games/:id", s.game)
	router.GET("/games/:id/turns", s.turns)
	router.GET("/games/:id/socket", s.socket)

	s.hs = &http.Server{
		Addr:    addr,
		Handler: cors.Default().Handler(router),
	}
	return s
}

// NewHandler is the handler of a server for ctrl, for serving it elsewhere.
func NewHandler(ctrl *controller.Controller) http.Handler {
	return New("", ctrl).hs.Handler
}

// WaitForExit serves until the server is shut down.
func (s *Server) WaitForExit() {
	log.Infof("Zero Cool listening on %s", s.hs.Addr)
	err := s.hs.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("Error while listening")
	}
}

// Shutdown stops the server, waiting for open requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("unable to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (SnakeRequest, error) {
	req := SnakeRequest{}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req)
	return req, errors.Wrap(err, "invalid snake request")
}

func (s *Server) info(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, InfoResponse{
		APIVersion: config.APIVersion,
		Author:     config.Author,
		Color:      config.Color,
		Head:       config.Head,
		Tail:       config.Tail,
		Version:    version.Version,
	})
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) start(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, errors.New("too many games starting"))
		return
	}
	req, err := decodeRequest(w, r)
	if err != nil {
		log.WithError(err).Warn("bad start request")
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.ctrl.Start(req.Snapshot())
	w.WriteHeader(http.StatusOK)
}

// budget is how long a move may take: the game timeout less the latency
// buffer, or half the timeout when the buffer would eat all of it.
func (s *Server) budget(timeout int) time.Duration {
	t := time.Duration(timeout) * time.Millisecond
	if t-s.latency <= 0 {
		return t / 2
	}
	return t - s.latency
}

// move always answers with a move, falling back to the default when the
// request cannot be read.
func (s *Server) move(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, err := decodeRequest(w, r)
	if err != nil {
		log.WithError(err).Error("bad move request, playing default")
		writeJSON(w, http.StatusOK, MoveResponse{Move: strategy.DefaultMove.String()})
		return
	}
	snap := req.Snapshot()

	ctx, cancel := context.WithTimeout(r.Context(), s.budget(snap.Timeout))
	defer cancel()
	d := s.ctrl.Move(ctx, snap)
	writeJSON(w, http.StatusOK, MoveResponse{Move: d.String()})
}

func (s *Server) end(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, err := decodeRequest(w, r)
	if err != nil {
		log.WithError(err).Warn("bad end request")
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.ctrl.End(req.Snapshot())
	w.WriteHeader(http.StatusOK)
}

func (s *Server) storeError(w http.ResponseWriter, id string, err error) {
	if errors.Cause(err) == controller.ErrNotFound {
		writeError(w, http.StatusNotFound, err)
		return
	}
	log.WithError(err).WithField("game", id).Error("store failed")
	writeError(w, http.StatusInternalServerError, err)
}

func (s *Server) game(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	g, err := s.ctrl.Store.GetGame(r.Context(), id)
	if err != nil {
		s.storeError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func queryInt(r *http.Request, key string, defaults int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaults, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return i, nil
}

// turns lists recorded turns, honouring limit and offset query parameters.
func (s *Server) turns(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	turns, err := s.ctrl.Store.ListTurns(r.Context(), id, limit, offset)
	if err != nil {
		s.storeError(w, id, err)
		return
	}
	if turns == nil {
		turns = []*controller.Turn{}
	}
	writeJSON(w, http.StatusOK, turns)
}
