// Package metrics wires the session core's counters into Prometheus so
// the diagnostics server can expose them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Registry holds every metric this process exports. A single Registry is
// created at startup and threaded into the components that increment it.
type Registry struct {
	reg *prometheus.Registry

	CRCFailures      prometheus.Counter
	UnknownMessages  prometheus.Counter
	ResyncEvents     prometheus.Counter
	BytesReceived    prometheus.Counter
	BytesSent        prometheus.Counter
	TransferRetries  *prometheus.CounterVec
	ParamDownloads   prometheus.Counter
	MissionTransfers *prometheus.CounterVec
	ConnectionState  prometheus.Gauge
}

// New builds and registers every metric under a "gcsd_" namespace.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		CRCFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gcsd",
			Subsystem: "mavlink",
			Name:      "crc_failures_total",
			Help:      "Frames rejected due to a CRC mismatch.",
		}),
		UnknownMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gcsd",
			Subsystem: "mavlink",
			Name:      "unknown_messages_total",
			Help:      "Frames received for an unregistered message id.",
		}),
		ResyncEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gcsd",
			Subsystem: "mavlink",
			Name:      "resync_events_total",
			Help:      "Times the streaming parser discarded bytes to find the next frame boundary.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gcsd",
			Subsystem: "link",
			Name:      "bytes_received_total",
			Help:      "Raw bytes read from the active transport.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gcsd",
			Subsystem: "link",
			Name:      "bytes_sent_total",
			Help:      "Raw bytes written to the active transport.",
		}),
		TransferRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gcsd",
			Subsystem: "transfer",
			Name:      "retries_total",
			Help:      "Retry attempts issued by a transfer engine.",
		}, []string{"engine"}),
		ParamDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gcsd",
			Subsystem: "transfer",
			Name:      "param_downloads_total",
			Help:      "Completed full parameter-table downloads.",
		}),
		MissionTransfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gcsd",
			Subsystem: "transfer",
			Name:      "mission_transfers_total",
			Help:      "Completed mission/fence/rally transfers by kind and direction.",
		}, []string{"kind", "direction"}),
		ConnectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gcsd",
			Subsystem: "session",
			Name:      "connection_state",
			Help:      "Current session state as an integer (see events.ConnectionState).",
		}),
	}

	reg.MustRegister(
		r.CRCFailures, r.UnknownMessages, r.ResyncEvents,
		r.BytesReceived, r.BytesSent,
		r.TransferRetries, r.ParamDownloads, r.MissionTransfers,
		r.ConnectionState,
	)
	return r
}

// Gatherer exposes the underlying Prometheus registry for the
// diagnostics HTTP handler.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Snapshot is a read-only view of the counters an operator might want
// without scraping /metrics, e.g. for a CLI status command.
type Snapshot struct {
	CRCFailures     float64
	UnknownMessages float64
	ResyncEvents    float64
	BytesReceived   float64
	BytesSent       float64
	ParamDownloads  float64
	ConnectionState float64
}

// Snapshot reads the current value of every scalar counter/gauge. Vector
// metrics (TransferRetries, MissionTransfers) are omitted since they have
// no single scalar value; scrape /metrics for those.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		CRCFailures:     readCounter(r.CRCFailures),
		UnknownMessages: readCounter(r.UnknownMessages),
		ResyncEvents:    readCounter(r.ResyncEvents),
		BytesReceived:   readCounter(r.BytesReceived),
		BytesSent:       readCounter(r.BytesSent),
		ParamDownloads:  readCounter(r.ParamDownloads),
		ConnectionState: readGauge(r.ConnectionState),
	}
}

func readCounter(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func readGauge(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}
