package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boardstream_realtime_connections",
		Help: "Currently connected WebSocket clients.",
	})

	openRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boardstream_realtime_rooms",
		Help: "Rooms with at least one member.",
	})

	clientEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardstream_realtime_client_events_total",
		Help: "Client-initiated events received, by event name.",
	}, []string{"event"})

	broadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardstream_realtime_broadcasts_total",
		Help: "Broadcasts issued, by event name.",
	}, []string{"event"})

	droppedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boardstream_realtime_dropped_frames_total",
		Help: "Frames dropped because a client's outgoing buffer was full.",
	})
)
