package obs

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the counters and gauges a session exposes. Each session
// owns a private prometheus.Registry (never the global default) so a
// loopback co-tenant process can run a server and a client Metrics side by
// side without collector name collisions.
type Metrics struct {
	Registry *prometheus.Registry

	PacketsSent    *prometheus.CounterVec
	PacketsRecv    *prometheus.CounterVec
	BytesSent      *prometheus.CounterVec
	BytesRecv      *prometheus.CounterVec
	PacketsDropped prometheus.Counter
	InputsLate     prometheus.Counter
	InputsDup      prometheus.Counter
	ReliableResend prometheus.Counter

	ClientsConnected prometheus.Gauge
	RTTMillis        *prometheus.GaugeVec
	JitterMillis     *prometheus.GaugeVec
}

// NewMetrics registers a fresh collector set under namespace ("server" or
// "client") on a private registry. Every call builds a new registry, so unit
// tests and co-tenant sessions never share collectors.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		PacketsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "packets_sent_total",
		}, []string{"transport"}),
		PacketsRecv: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "packets_recv_total",
		}, []string{"transport"}),
		BytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "bytes_sent_total",
		}, []string{"transport"}),
		BytesRecv: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "bytes_recv_total",
		}, []string{"transport"}),
		PacketsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "packets_malformed_total",
		}),
		InputsLate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "inputs_late_total",
		}),
		InputsDup: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "inputs_duplicated_total",
		}),
		ReliableResend: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "reliable_retransmits_total",
		}),
		ClientsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "clients_connected",
		}),
		RTTMillis: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "client_rtt_ms",
		}, []string{"client_id"}),
		JitterMillis: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "netcode", Subsystem: namespace, Name: "client_jitter_ms",
		}, []string{"client_id"}),
	}

	reg.MustRegister(
		m.PacketsSent, m.PacketsRecv, m.BytesSent, m.BytesRecv,
		m.PacketsDropped, m.InputsLate, m.InputsDup, m.ReliableResend,
		m.ClientsConnected, m.RTTMillis, m.JitterMillis,
	)
	return m
}
