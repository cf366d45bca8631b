package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker periodically logs the server counters together with the
// process self-stats (RSS, CPU), giving an operator a pulse without any
// external metrics stack.
type HeartbeatWorker struct {
	log      *slog.Logger
	metrics  *Metrics
	interval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, metrics *Metrics, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, metrics: metrics, interval: interval}
}

// Run executes the main loop of the worker until the context is canceled.
func (w *HeartbeatWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			snapshot := w.metrics.GetSnapshot()
			w.log.Info("Heartbeat",
				"ram_bytes", rss,
				"cpu_percent", cpu,
				"connections_accepted", snapshot.ConnectionsAccepted,
				"connections_closed", snapshot.ConnectionsClosed,
				"frames_decoded", snapshot.FramesDecoded,
				"frames_rejected", snapshot.FramesRejected,
				"replies_sent", snapshot.RepliesSent,
				"replies_dropped", snapshot.RepliesDropped,
			)
		}
	}
}

// getSelfStats retrieves memory and CPU usage for the given process.
func getSelfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
