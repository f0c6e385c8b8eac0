package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"CaseFilePlatform/pkg/metrics"
)

// CRMMetrics содержит метрики операций над карточками
type CRMMetrics struct {
	// Базовые метрики из pkg
	base *metrics.Metrics

	// Специфичные метрики слоя данных
	operationTotal    *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	externalIDsIssued *prometheus.CounterVec
	dossierRelations  *prometheus.HistogramVec
}

// NewCRMMetrics создает новый экземпляр метрик слоя данных
func NewCRMMetrics(serviceName string) *CRMMetrics {
	base := metrics.NewMetrics(serviceName)

	operationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "crm",
			Name:      "operation_total",
			Help:      "Total number of CRM operations performed",
		},
		[]string{"entity", "operation", "result"},
	)

	operationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "crm",
			Name:      "operation_duration_seconds",
			Help:      "Duration of CRM operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"entity", "operation"},
	)

	externalIDsIssued := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "crm",
			Name:      "external_ids_issued_total",
			Help:      "Total number of external ids issued per entity kind",
		},
		[]string{"kind"},
	)

	dossierRelations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "crm",
			Name:      "dossier_relations",
			Help:      "Number of related records loaded into a dossier",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"relation"},
	)

	registerCollectors(operationTotal, operationDuration, externalIDsIssued, dossierRelations)

	return &CRMMetrics{
		base:              base,
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		externalIDsIssued: externalIDsIssued,
		dossierRelations:  dossierRelations,
	}
}

func registerCollectors(collectors ...prometheus.Collector) {
	for _, collector := range collectors {
		if err := prometheus.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}

// RecordOperation фиксирует выполненную операцию и ее длительность
func (m *CRMMetrics) RecordOperation(entity, operation, result string, duration time.Duration) {
	m.operationTotal.WithLabelValues(entity, operation, result).Inc()
	m.operationDuration.WithLabelValues(entity, operation).Observe(duration.Seconds())
}

// RecordExternalIDIssued фиксирует выдачу внешнего номера
func (m *CRMMetrics) RecordExternalIDIssued(kind string) {
	m.externalIDsIssued.WithLabelValues(kind).Inc()
}

// RecordDossierRelations фиксирует размер загруженной коллекции досье
func (m *CRMMetrics) RecordDossierRelations(relation string, count int) {
	m.dossierRelations.WithLabelValues(relation).Observe(float64(count))
}

// Base возвращает базовые метрики для HTTP middleware
func (m *CRMMetrics) Base() *metrics.Metrics {
	return m.base
}
