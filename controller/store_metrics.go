package controller

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentStore wraps all store methods to instrument the underlying calls.
func InstrumentStore(s Store) Store { return &metrics{s} }

var (
	storeCalls = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zerocool",
			Subsystem: "store",
			Name:      "calls",
			Help:      "Calls processed by the store.",
		},
		[]string{"method"},
	)
)

func instrument(method string) func() {
	t := prometheus.NewTimer(storeCalls.WithLabelValues(method))
	return t.ObserveDuration
}

func init() {
	prometheus.MustRegister(storeCalls)
}

type metrics struct{ s Store }

func (m *metrics) CreateGame(c context.Context, g *Game) error {
	defer instrument("CreateGame")()
	return m.s.CreateGame(c, g)
}

func (m *metrics) GetGame(c context.Context, id string) (*Game, error) {
	defer instrument("GetGame")()
	return m.s.GetGame(c, id)
}

func (m *metrics) PushTurn(c context.Context, id string, t *Turn) error {
	defer instrument("PushTurn")()
	return m.s.PushTurn(c, id, t)
}

func (m *metrics) ListTurns(c context.Context, id string, limit, offset int) ([]*Turn, error) {
	defer instrument("ListTurns")()
	return m.s.ListTurns(c, id, limit, offset)
}

func (m *metrics) EndGame(c context.Context, id string, s *Summary) error {
	defer instrument("EndGame")()
	return m.s.EndGame(c, id, s)
}
