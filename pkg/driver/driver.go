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

// Package driver glues the request, the NSGA-II engine and the ranker
// together: build the initial population, run the GA, and pick one
// exemplar packing per criterion. It owns no transport or persistence of
// its own.
package driver

import (
	"context"
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/binpack-nsga2/packer/pkg/pack"
	"github.com/binpack-nsga2/packer/pkg/pack/algorithms"
	"github.com/binpack-nsga2/packer/pkg/pack/config"
	"github.com/binpack-nsga2/packer/pkg/pack/metrics"
	"github.com/binpack-nsga2/packer/pkg/pack/progress"
	"github.com/binpack-nsga2/packer/pkg/pack/ranker"
	"github.com/binpack-nsga2/packer/pkg/pack/telemetry"
)

// exemplarCriteria is the fixed set of four criteria a Driver reports
// one packing for, per spec.md §6 ("Output").
var exemplarCriteria = []ranker.Criterion{
	ranker.Fitness,
	ranker.CenterOfMass,
	ranker.Volume,
	ranker.Weight,
}

// PlacedBox is one box's placement in an exemplar packing, including its
// precomputed center point so a rendering consumer doesn't need to
// recompute it from position and shape.
type PlacedBox struct {
	Code                    int
	PosX, PosY, PosZ        int
	Length, Width, Height   int
	CenterX, CenterY, CenterZ float64
}

// Packing is a structured description of one finished placement: the
// container dimensions plus every successfully placed box.
type Packing struct {
	GridX, GridY, GridZ int
	Boxes               []PlacedBox
}

// buildPacking converts an Individual's InsertedBoxes into a Packing.
func buildPacking(ind *pack.Individual) Packing {
	boxes := make([]PlacedBox, len(ind.InsertedBoxes))
	for i, b := range ind.InsertedBoxes {
		l, w, h := b.GetShape()
		cx, cy, cz := b.Center()
		boxes[i] = PlacedBox{
			Code:    b.Code,
			PosX:    b.PosX,
			PosY:    b.PosY,
			PosZ:    b.PosZ,
			Length:  l,
			Width:   w,
			Height:  h,
			CenterX: cx,
			CenterY: cy,
			CenterZ: cz,
		}
	}
	return Packing{GridX: ind.GridX, GridY: ind.GridY, GridZ: ind.GridZ, Boxes: boxes}
}

// GenerationSnapshot records the best-of-generation value of each
// objective; collected only when the request enables History.
type GenerationSnapshot struct {
	Generation       int
	BestVolume       float64
	BestWeight       float64
	BestCenterOfMass float64
}

// Result is everything a Driver.Run call returns.
type Result struct {
	Population *pack.Population
	Exemplars  map[ranker.Criterion]Packing
	History    []GenerationSnapshot
}

// Driver owns the ambient collaborators a GA run reports through:
// metrics, tracing and the progress sink. Rng is the single RNG handle
// threaded through population construction and the GA engine.
type Driver struct {
	Metrics *metrics.Metrics
	Tracer  *telemetry.Tracer
	Sink    progress.Sink
	Rng     *rand.Rand
}

// New builds a Driver. Any of metrics, tracer or sink may be nil; metrics
// and tracer become no-ops, and sink defaults to progress.Noop.
func New(m *metrics.Metrics, tracer *telemetry.Tracer, sink progress.Sink, rng *rand.Rand) *Driver {
	if tracer == nil {
		tracer = telemetry.NewTracer(nil)
	}
	if sink == nil {
		sink = progress.Noop{}
	}
	return &Driver{Metrics: m, Tracer: tracer, Sink: sink, Rng: rng}
}

// Run builds the initial population from req, evolves it, and returns
// the final population plus one exemplar packing per criterion. roomID
// is forwarded to the progress sink unchanged.
func (d *Driver) Run(ctx context.Context, req *config.Request, roomID string) (*Result, error) {
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	templates, randomize, err := req.ParseBoxes()
	if err != nil {
		return nil, err
	}

	logger := klog.FromContext(ctx).WithValues("component", "driver")
	ctx, span := d.Tracer.StartRun(ctx, req.PopulationSize, req.MaxGeneration)
	defer span.End()

	initial := make([]*pack.Individual, req.PopulationSize)
	for i := range initial {
		initial[i] = pack.NewIndividual(d.newChromosome(templates, randomize), req.GridX, req.GridY, req.GridZ)
	}

	ga := algorithms.NewGA(algorithms.Config{
		PopulationSize:      req.PopulationSize,
		MaxGenerations:       req.MaxGeneration,
		MutationProbability: req.MutationProbability,
		TournamentSize:       req.TournamentSize,
	}, req.GridX, req.GridY, req.GridZ, d.Rng, d.Sink)

	final, history := d.runWithHistory(ctx, ga, initial, roomID, req.History)

	population := pack.NewPopulation(final)
	population.Fronts = algorithms.NonDominatedSort(population.Individuals)

	exemplars := make(map[ranker.Criterion]Packing, len(exemplarCriteria))
	for _, criterion := range exemplarCriteria {
		d.Sink.EmitStatus(beginStatus(criterion), roomID)
		exemplar := ranker.Exemplar(population.Individuals, criterion)
		if exemplar != nil {
			exemplars[criterion] = buildPacking(exemplar)
		}
		d.Sink.EmitStatus(endStatus(criterion), roomID)
	}

	logger.Info("driver run complete", "populationSize", population.Len(), "generations", req.MaxGeneration)
	return &Result{Population: population, Exemplars: exemplars, History: history}, nil
}

// runWithHistory wraps ga.Run, optionally sampling best-of-generation
// objective values when collect is true. When sampling, it drives
// ga.Step directly (rather than ga.Run) so each generation can be wrapped
// in its own "ga.generation" span and metrics observation without
// duplicating ga.Run's begin/end status emission every generation.
func (d *Driver) runWithHistory(ctx context.Context, ga *algorithms.GA, initial []*pack.Individual, roomID string, collect bool) ([]*pack.Individual, []GenerationSnapshot) {
	if !collect {
		return ga.Run(ctx, initial, roomID), nil
	}

	ga.Sink.EmitStatus(progress.StatusRunBegin, roomID)
	defer ga.Sink.EmitStatus(progress.StatusRunEnd, roomID)

	population := initial
	algorithms.NonDominatedSort(population)

	history := make([]GenerationSnapshot, 0, ga.Config.MaxGenerations)
	runStart := time.Now()
	for gen := 0; gen < ga.Config.MaxGenerations; gen++ {
		_, span := d.Tracer.StartGeneration(ctx, gen)
		start := time.Now()
		population = ga.Step(population)
		took := time.Since(start)

		bestVolume := algorithms.BestVolume(population)
		bestWeight := algorithms.BestWeight(population)
		bestCoM := algorithms.BestCenterOfMass(population)

		frontZeroSize := 0
		for _, ind := range population {
			if ind.Rank == 0 {
				frontZeroSize++
			}
		}
		telemetry.AnnotateGeneration(span, frontZeroSize, bestVolume, bestWeight, bestCoM)
		span.End()

		if d.Metrics != nil {
			d.Metrics.ObserveGeneration(took, bestVolume, bestWeight, bestCoM)
		}

		elapsed := time.Since(runStart).Seconds()
		rate := 0.0
		if elapsed > 0 {
			rate = float64(gen+1) / elapsed
		}
		ga.Sink.EmitProgress(progress.GenerationEvent{
			Current:        gen + 1,
			Total:          ga.Config.MaxGenerations,
			Rate:           rate,
			ElapsedSeconds: elapsed,
		}, roomID)

		history = append(history, GenerationSnapshot{
			Generation:       gen,
			BestVolume:       bestVolume,
			BestWeight:       bestWeight,
			BestCenterOfMass: bestCoM,
		})
	}
	return population, history
}

// newChromosome builds one Individual's chromosome: the box templates in
// a freshly shuffled order, with omitted orientations rolled
// independently for this Individual.
func (d *Driver) newChromosome(templates []pack.Box, randomize []bool) []pack.Box {
	chromosome := make([]pack.Box, len(templates))
	copy(chromosome, templates)
	for i := range chromosome {
		if randomize[i] {
			chromosome[i].Orientation = d.Rng.Intn(2)
		}
	}
	d.Rng.Shuffle(len(chromosome), func(i, j int) {
		chromosome[i], chromosome[j] = chromosome[j], chromosome[i]
	})
	return chromosome
}

func beginStatus(criterion ranker.Criterion) progress.Status {
	switch criterion {
	case ranker.Volume:
		return progress.StatusBestVolumeBegin
	case ranker.Weight:
		return progress.StatusBestWeightBegin
	case ranker.CenterOfMass:
		return progress.StatusBestCenterOfMassBegin
	default:
		return progress.StatusBestFitnessBegin
	}
}

func endStatus(criterion ranker.Criterion) progress.Status {
	switch criterion {
	case ranker.Volume:
		return progress.StatusBestVolumeEnd
	case ranker.Weight:
		return progress.StatusBestWeightEnd
	case ranker.CenterOfMass:
		return progress.StatusBestCenterOfMassEnd
	default:
		return progress.StatusBestFitnessEnd
	}
}
