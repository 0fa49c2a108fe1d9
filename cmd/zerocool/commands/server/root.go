package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/battlesnakeio/zerocool/api"
	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/config"
	"github.com/battlesnakeio/zerocool/controller"
	"github.com/battlesnakeio/zerocool/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var (
	port        = config.Port
	promListen  = config.PrometheusListen
	storeKind   = config.Store
	weightsFile = ""
)

// RootCmd serves the snake.
var RootCmd = &cobra.Command{
	Use:    "server",
	Short:  "serve the snake to the battlesnake game server",
	PreRun: func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		if err := serve(); err != nil {
			log.WithError(err).Fatal("server failed")
		}
	},
}

func init() {
	RootCmd.Flags().IntVarP(&port, "port", "p", port, "port to listen on")
	RootCmd.Flags().StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint, disabled when empty")
	RootCmd.Flags().StringVar(&storeKind, "store", storeKind, "where games are recorded: memory, file, redis or sql")
	RootCmd.Flags().StringVarP(&weightsFile, "weights", "w", weightsFile, "json file overriding the default weights")
}

func serve() error {
	store, closeStore, err := openStore(storeKind)
	if err != nil {
		return err
	}
	defer closeStore()
	store = controller.InstrumentStore(store)

	friends, err := board.NewFriends(config.Friends...)
	if err != nil {
		return err
	}
	weights, err := LoadWeights(weightsFile)
	if err != nil {
		return err
	}

	rec := worker.New(store, config.RecorderQueue)
	ctx, cancel := context.WithCancel(context.Background())
	recorded := make(chan struct{})
	go func() {
		rec.Run(ctx, 0)
		close(recorded)
	}()

	ctrl := controller.New(controller.Config{
		Store:       store,
		Recorder:    rec,
		Friends:     friends,
		Weights:     weights,
		IdleTimeout: config.SessionIdleTimeout,
	})
	srv := api.New(fmt.Sprintf(":%d", port), ctrl)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		s := <-sig
		log.WithField("signal", s.String()).Info("shutting down")
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.WithError(err).Warn("unclean shutdown")
		}
	}()

	srv.WaitForExit()
	cancel()
	<-recorded
	if n := rec.Dropped(); n > 0 {
		log.WithField("dropped", n).Warn("records were dropped while serving")
	}
	return nil
}

func prometheus() {
	if promListen == "" {
		log.Info("prometheus exporter not enabled")
		return
	}

	log.WithField("addr", promListen).Info("starting prometheus exporter")
	go func() {
		r := http.NewServeMux()
		r.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(promListen, r); err != nil {
			log.WithError(err).Warn("prometheus failed to listen")
		}
	}()
}
