// Package metrics expone las métricas Prometheus del flujo de alta de plantas.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Etapas del flujo de alta que pueden fallar.
const (
	StageValidate = "validate"
	StageInsert   = "insert"
	StageUpload   = "upload"
	StageAttach   = "attach"
	StageRefresh  = "refresh"
)

// Metrics agrupa los contadores del servicio.
// Todos los métodos aceptan receptor nil (métricas deshabilitadas).
type Metrics struct {
	PlantsCreated    prometheus.Counter
	ImagesUploaded   prometheus.Counter
	WorkflowFailures *prometheus.CounterVec // por stage
	SessionEvents    *prometheus.CounterVec // por type
}

// New crea las métricas y las registra en registry.
func New(registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		PlantsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ayurveda_plants_created_total",
			Help: "Total number of plant records created through the admin workflow",
		}),
		ImagesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ayurveda_plant_images_uploaded_total",
			Help: "Total number of plant images uploaded to object storage",
		}),
		WorkflowFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ayurveda_workflow_failures_total",
			Help: "Admin workflow failures by stage",
		}, []string{"stage"}),
		SessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ayurveda_session_events_total",
			Help: "Session change events by type",
		}, []string{"type"}),
	}

	for _, c := range []prometheus.Collector{m.PlantsCreated, m.ImagesUploaded, m.WorkflowFailures, m.SessionEvents} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) PlantCreated() {
	if m == nil {
		return
	}
	m.PlantsCreated.Inc()
}

func (m *Metrics) ImagesStored(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ImagesUploaded.Add(float64(n))
}

func (m *Metrics) WorkflowFailed(stage string) {
	if m == nil {
		return
	}
	m.WorkflowFailures.WithLabelValues(stage).Inc()
}

func (m *Metrics) SessionEvent(kind string) {
	if m == nil {
		return
	}
	m.SessionEvents.WithLabelValues(kind).Inc()
}
