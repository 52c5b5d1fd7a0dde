/*
Copyright 2024 The binpack-nsga2 Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics exports Prometheus instrumentation for the GA engine.
// This is metrics, not the progress-sink transport spec.md places out of
// scope: callers who want per-generation status pushed to a client wire
// progress.Sink separately.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "binpacker"

// Metrics groups every series the GA engine emits. Construct one per
// process (or per registry) and pass it into driver.New.
type Metrics struct {
	GenerationsCompleted prometheus.Counter
	BestVolume           prometheus.Gauge
	BestWeight           prometheus.Gauge
	BestCenterOfMass     prometheus.Gauge
	GenerationDuration   prometheus.Histogram
}

// New builds and registers the metric set against registerer.
func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		GenerationsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_completed_total",
			Help:      "Number of GA generations completed across all runs.",
		}),
		BestVolume: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_volume",
			Help:      "Highest packed volume in the current population.",
		}),
		BestWeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_weight",
			Help:      "Highest packed weight in the current population.",
		}),
		BestCenterOfMass: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_center_of_mass",
			Help:      "Lowest center-of-mass distance in the current population.",
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Wall time spent evolving a single generation.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	registerer.MustRegister(
		m.GenerationsCompleted,
		m.BestVolume,
		m.BestWeight,
		m.BestCenterOfMass,
		m.GenerationDuration,
	)
	return m
}

// ObserveGeneration records one completed generation's timing and
// current best-of-population objective values.
func (m *Metrics) ObserveGeneration(took time.Duration, bestVolume, bestWeight, bestCenterOfMass float64) {
	m.GenerationsCompleted.Inc()
	m.GenerationDuration.Observe(took.Seconds())
	m.BestVolume.Set(bestVolume)
	m.BestWeight.Set(bestWeight)
	m.BestCenterOfMass.Set(bestCenterOfMass)
}
