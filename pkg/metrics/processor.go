package metrics

import (
	"fmt"
	"strconv"
	"time"
)

// IDs das métricas emitidas por requisição
const (
	MetricRequests = "requests"
	MetricLatency  = "latency"
	MetricErrors   = "errors"
)

// DefaultDefinitions liga cada ID ao nome real e ao tipo.
var DefaultDefinitions = map[string]MetricDefinition{
	MetricRequests: {Name: "request.count", Type: TypeCount},
	MetricLatency:  {Name: "request.latency_ms", Type: TypeHistogram},
	MetricErrors:   {Name: "request.errors", Type: TypeCount},
}

// Processor traduz IDs de métricas para chamadas no Provider.
type Processor struct {
	definitions map[string]MetricDefinition
	provider    Provider
}

// NewProcessor cria um processador; sem definições usa DefaultDefinitions.
func NewProcessor(provider Provider, defs map[string]MetricDefinition) *Processor {
	if defs == nil {
		defs = DefaultDefinitions
	}
	if provider == nil {
		provider = &NoopProvider{}
	}
	return &Processor{definitions: defs, provider: provider}
}

// Record envia value para a métrica registrada sob id.
func (p *Processor) Record(id string, value float64, tags []string) error {
	def, exists := p.definitions[id]
	if !exists {
		return fmt.Errorf("métrica não definida: %s", id)
	}

	switch def.Type {
	case TypeCount:
		return p.provider.Count(def.Name, value, tags)
	case TypeGauge:
		return p.provider.Gauge(def.Name, value, tags)
	case TypeHistogram:
		return p.provider.Histogram(def.Name, value, tags)
	default:
		return fmt.Errorf("tipo de métrica desconhecido: %s", def.Type)
	}
}

// ObserveRequest registra contagem, latência e erros (status >= 500) de uma
// requisição.
func (p *Processor) ObserveRequest(operation string, status int, latency time.Duration) error {
	tags := []string{"operation:" + operation, "status:" + strconv.Itoa(status)}

	if err := p.Record(MetricRequests, 1, tags); err != nil {
		return err
	}
	if err := p.Record(MetricLatency, float64(latency.Milliseconds()), tags); err != nil {
		return err
	}
	if status >= 500 {
		return p.Record(MetricErrors, 1, tags)
	}
	return nil
}
