// ABOUTME: Optional HTTP endpoint exposing multiplexer metrics for Prometheus
// ABOUTME: Runs in the app's errgroup and shuts down with it

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newMetricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func (a *app) serveMetrics(addr string) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMetricsRouter(a.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.group.Go(func() error {
		a.log.Debug("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server stopped", "error", err)
		}
		return nil
	})
	a.group.Go(func() error {
		<-a.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
}
