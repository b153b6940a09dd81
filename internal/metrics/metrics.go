// Package metrics объявляет счетчики Prometheus движка синхронизации
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PacketsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_packets_received_total",
		Help: "UDP datagrams received per channel.",
	}, []string{"channel"})

	// PacketsIngested - результат обработки пакета: stored, duplicate, invalid, failed
	PacketsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_packets_ingested_total",
		Help: "Ingested packets by record kind and outcome.",
	}, []string{"kind", "result"})

	PeerSends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_peer_sends_total",
		Help: "Per-peer datagram sends by record kind and outcome.",
	}, []string{"kind", "result"})

	RepeaterCycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_repeater_cycles_total",
		Help: "Gossip repeater cycles by outcome.",
	}, []string{"result"})

	ImportedRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_imported_records_total",
		Help: "Records inserted from exchange files.",
	}, []string{"kind"})

	ImportRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_import_runs_total",
		Help: "Exchange file import runs by outcome.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(PacketsReceived, PacketsIngested, PeerSends, RepeaterCycles, ImportedRecords, ImportRuns)
}
