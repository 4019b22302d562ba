package service

import (
	"net/http"

	"go-vet-clinic/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "vetclinic"

// Metrics holds the domain counters. Each instance owns its registry so tests
// can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	transitions      *prometheus.CounterVec
	historialAppends *prometheus.CounterVec
	denials          *prometheus.CounterVec
	patientsCreated  prometheus.Counter
	queueTickets     prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "patient_transitions_total",
			Help:      "Patient status transitions applied.",
		}, []string{"from", "to"}),
		historialAppends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "historial_entries_total",
			Help:      "Entries appended to the historial ledger.",
		}, []string{"record_type"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "authorization_denied_total",
			Help:      "Capability checks that failed.",
		}, []string{"capability"}),
		patientsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "patients_created_total",
			Help:      "Patients registered.",
		}),
		queueTickets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "waiting_room_tickets_total",
			Help:      "Waiting room queue tickets issued.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.transitions,
		m.historialAppends,
		m.denials,
		m.patientsCreated,
		m.queueTickets,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveTransition(from, to entity.PatientStatus) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) ObserveHistorialAppend(recordType entity.RecordType) {
	if m == nil {
		return
	}
	m.historialAppends.WithLabelValues(string(recordType)).Inc()
}

func (m *Metrics) ObserveDenial(capability entity.Capability) {
	if m == nil {
		return
	}
	m.denials.WithLabelValues(string(capability)).Inc()
}

func (m *Metrics) ObservePatientCreated() {
	if m == nil {
		return
	}
	m.patientsCreated.Inc()
}

func (m *Metrics) ObserveQueueTicket() {
	if m == nil {
		return
	}
	m.queueTickets.Inc()
}
