package metrics

import "github.com/prometheus/client_golang/prometheus"

// Exported as vars so tests can swap in collectors bound to a private
// registry.
var (
	SLAScansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sla_scans_total",
		Help: "Completed SLA alert scan passes.",
	})
	SLABreachesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sla_breaches_total",
		Help: "SLA breach notifications raised, by dimension.",
	}, []string{"dimension"})
	SLANearingTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sla_nearing_total",
		Help: "Nearing-breach notifications raised, by dimension.",
	}, []string{"dimension"})
	TicketsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tickets_created_total",
		Help: "Tickets created through the API.",
	})
)

func init() {
	prometheus.MustRegister(SLAScansTotal, SLABreachesTotal, SLANearingTotal, TicketsCreatedTotal)
}
