package monitoring

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	seatClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_claims_total",
			Help: "Seat claim attempts by outcome",
		},
		[]string{"result"},
	)

	ticketsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_created_total",
			Help: "Tickets created, single and bulk paths combined",
		},
	)

	checkIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_checkins_total",
			Help: "Check-in attempts by outcome",
		},
		[]string{"result"},
	)

	importRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Bulk import rows by disposition",
		},
		[]string{"status"},
	)

	storeOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_op_duration_seconds",
			Help:    "Latency of entity store operations",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"backend", "op"},
	)
)

// TrackClaim records one seat claim outcome ("success" or a reason code).
func TrackClaim(result string) {
	seatClaims.WithLabelValues(result).Inc()
}

func TrackTicketCreated() {
	ticketsCreated.Inc()
}

// TrackCheckIn records one check-in outcome ("success" or a reason code).
func TrackCheckIn(result string) {
	checkIns.WithLabelValues(result).Inc()
}

// TrackImportRow records one bulk import row as "imported" or "rejected".
func TrackImportRow(status string) {
	importRows.WithLabelValues(status).Inc()
}

// ObserveStoreOp records the latency of one store operation.
func ObserveStoreOp(backend, op string, d time.Duration) {
	storeOpDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}

// Serve exposes /metrics on its own listener so scrapes never contend
// with API traffic.
func Serve(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("metrics server stopped: %v", err)
	}
}
