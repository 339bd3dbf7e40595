package archecs

import "github.com/prometheus/client_golang/prometheus"

// Stats is a point-in-time snapshot of a World's storage shape,
// grounded on arche's ecs/stats.World snapshot: counts of archetypes,
// chunk-sets, chunks, live entities, and total chunk capacity, for
// dashboards and tests that assert on storage layout rather than
// entity data.
type Stats struct {
	Archetypes      int
	ChunkSets       int
	Chunks          int
	AllocatedChunks int
	Entities        int
	CapacityTotal   int
}

// Stats computes a fresh snapshot of w's current storage shape. It
// does not mutate anything, and is safe to call between any two
// other World operations.
func (w *World) Stats() Stats {
	var s Stats
	for _, arch := range w.storage.archetypes {
		s.Archetypes++
		for _, set := range arch.chunkSets {
			s.ChunkSets++
			for _, chunk := range set.chunks {
				s.Chunks++
				s.Entities += chunk.Len()
				s.CapacityTotal += chunk.Capacity()
				if chunk.IsAllocated() {
					s.AllocatedChunks++
				}
			}
		}
	}
	return s
}

// PrometheusCollector adapts a World's Stats snapshot into a
// prometheus.Collector, following the gauge-per-field pattern used for
// runtime-shape metrics in the retrieved alexander-storage manifests
// (internal/metrics). Register one per World with a distinct label.
type PrometheusCollector struct {
	world *World
	label string

	archetypes      *prometheus.Desc
	chunkSets       *prometheus.Desc
	chunks          *prometheus.Desc
	allocatedChunks *prometheus.Desc
	entities        *prometheus.Desc
	capacityTotal   *prometheus.Desc
}

// NewPrometheusCollector builds a collector reporting world's storage
// shape under a constant "world" label equal to worldLabel.
func NewPrometheusCollector(world *World, worldLabel string) *PrometheusCollector {
	constLabels := prometheus.Labels{"world": worldLabel}
	return &PrometheusCollector{
		world: world,
		label: worldLabel,
		archetypes:      prometheus.NewDesc("archecs_archetypes", "Number of archetypes currently allocated.", nil, constLabels),
		chunkSets:       prometheus.NewDesc("archecs_chunk_sets", "Number of chunk-sets currently allocated.", nil, constLabels),
		chunks:          prometheus.NewDesc("archecs_chunks", "Number of chunks, including empty ones whose backing buffer has been freed.", nil, constLabels),
		allocatedChunks: prometheus.NewDesc("archecs_chunks_allocated", "Number of chunks whose backing buffer is currently reserved.", nil, constLabels),
		entities:        prometheus.NewDesc("archecs_entities", "Number of live entities.", nil, constLabels),
		capacityTotal:   prometheus.NewDesc("archecs_capacity_total", "Sum of every chunk's fixed entity capacity.", nil, constLabels),
	}
}

// Describe implements prometheus.Collector.
func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.archetypes
	ch <- c.chunkSets
	ch <- c.chunks
	ch <- c.allocatedChunks
	ch <- c.entities
	ch <- c.capacityTotal
}

// Collect implements prometheus.Collector.
func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.world.Stats()
	ch <- prometheus.MustNewConstMetric(c.archetypes, prometheus.GaugeValue, float64(s.Archetypes))
	ch <- prometheus.MustNewConstMetric(c.chunkSets, prometheus.GaugeValue, float64(s.ChunkSets))
	ch <- prometheus.MustNewConstMetric(c.chunks, prometheus.GaugeValue, float64(s.Chunks))
	ch <- prometheus.MustNewConstMetric(c.allocatedChunks, prometheus.GaugeValue, float64(s.AllocatedChunks))
	ch <- prometheus.MustNewConstMetric(c.entities, prometheus.GaugeValue, float64(s.Entities))
	ch <- prometheus.MustNewConstMetric(c.capacityTotal, prometheus.GaugeValue, float64(s.CapacityTotal))
}
