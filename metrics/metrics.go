// Package metrics exposes the interconnect's traffic counters as Prometheus
// gauges, registered the same way tcp-info's metrics package registers its
// counters and histograms via promauto.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/coherence/network"
)

var (
	// MemReads tracks the interconnect's mem_reads counter.
	MemReads = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coherence_mem_reads",
		Help: "Number of cache installs that modeled a memory fill.",
	})

	// ReadRequests tracks the interconnect's read_requests counter.
	ReadRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coherence_read_requests_total",
		Help: "Number of ReadRequest messages dispatched on incoming.",
	})

	// WriteRequests tracks the interconnect's write_requests counter.
	WriteRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coherence_write_requests_total",
		Help: "Number of WriteRequest messages dispatched on incoming.",
	})

	// Invalidations tracks the interconnect's invalidations counter.
	Invalidations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coherence_invalidations_total",
		Help: "Number of Invalidate messages delivered.",
	})

	// StateUpdates tracks the interconnect's state_updates counter.
	StateUpdates = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coherence_state_updates_total",
		Help: "Number of directory entry state transitions.",
	})

	// ReadAcks tracks the interconnect's read_acks counter.
	ReadAcks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coherence_read_acks_total",
		Help: "Number of ReadAck messages delivered.",
	})

	// WriteAcks tracks the interconnect's write_acks counter.
	WriteAcks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coherence_write_acks_total",
		Help: "Number of WriteAck messages delivered.",
	})

	// FetchRequests tracks the interconnect's fetch_requests counter.
	FetchRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coherence_fetch_requests_total",
		Help: "Number of Fetch messages delivered to a remote owner.",
	})
)

// Update republishes stats as the current value of every gauge. Called
// once, after the whole trace has been replayed; this is a snapshot
// exporter, not a live per-message feed, so there's no concurrent-write
// concern.
func Update(stats network.Stats) {
	MemReads.Set(float64(stats.MemReads))
	ReadRequests.Set(float64(stats.ReadRequests))
	WriteRequests.Set(float64(stats.WriteRequests))
	Invalidations.Set(float64(stats.Invalidations))
	StateUpdates.Set(float64(stats.StateUpdates))
	ReadAcks.Set(float64(stats.ReadAcks))
	WriteAcks.Set(float64(stats.WriteAcks))
	FetchRequests.Set(float64(stats.FetchRequests))
}

// Serve starts an HTTP server exposing /metrics on addr. It runs until ctx
// is canceled, at which point it shuts down and returns nil, or until the
// server fails (e.g. addr cannot be bound), in which case it returns that
// error.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	_ = server.Shutdown(context.Background())
	return <-errCh
}
