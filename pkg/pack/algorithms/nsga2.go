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

package algorithms

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/binpack-nsga2/packer/pkg/pack"
	"github.com/binpack-nsga2/packer/pkg/pack/progress"
)

// Config holds the tunable parameters of one NSGA-II run. Sizes and rates
// are validated by the config package before reaching here; this package
// trusts its inputs.
type Config struct {
	PopulationSize      int
	MaxGenerations      int
	MutationProbability float64
	TournamentSize      int
}

// NonDominatedSort partitions population into fronts by the dominance
// relation, mutating each Individual's Rank, DominationCount and
// DominatedSolutions fields. Pairwise comparison is O(n^2). The returned
// slice always has a trailing empty front as a sentinel.
func NonDominatedSort(population []*pack.Individual) [][]*pack.Individual {
	n := len(population)
	for i := 0; i < n; i++ {
		population[i].DominationCount = 0
		population[i].DominatedSolutions = population[i].DominatedSolutions[:0]
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if pack.Dominates(population[i], population[j]) {
				population[i].DominatedSolutions = append(population[i].DominatedSolutions, j)
			} else if pack.Dominates(population[j], population[i]) {
				population[i].DominationCount++
			}
		}
	}

	var fronts [][]*pack.Individual
	var current []*pack.Individual
	var currentIdx []int
	for i := 0; i < n; i++ {
		if population[i].DominationCount == 0 {
			population[i].Rank = 0
			current = append(current, population[i])
			currentIdx = append(currentIdx, i)
		}
	}
	fronts = append(fronts, current)

	rank := 0
	for len(current) > 0 {
		var next []*pack.Individual
		var nextIdx []int
		for _, idx := range currentIdx {
			for _, dominatedIdx := range population[idx].DominatedSolutions {
				population[dominatedIdx].DominationCount--
				if population[dominatedIdx].DominationCount == 0 {
					population[dominatedIdx].Rank = rank + 1
					next = append(next, population[dominatedIdx])
					nextIdx = append(nextIdx, dominatedIdx)
				}
			}
		}
		rank++
		fronts = append(fronts, next)
		current = next
		currentIdx = nextIdx
	}

	return fronts
}

// objective extracts the i-th objective (0=volume, 1=weight, 2=com) from
// an Individual for the generic per-objective crowding-distance pass.
func objective(ind *pack.Individual, i int) float64 {
	switch i {
	case 0:
		return ind.Objectives.Volume
	case 1:
		return ind.Objectives.Weight
	default:
		return ind.Objectives.CenterOfMass
	}
}

const numObjectives = 3

// CrowdingDistance computes per-individual crowding distance within a
// single front, summing normalized objective gaps across all three
// objectives. Boundary individuals on each objective receive 1e5
// (treated as effectively infinite, per spec).
func CrowdingDistance(front []*pack.Individual) {
	if len(front) <= 2 {
		for _, ind := range front {
			ind.CrowdingDistance = 1e5
		}
		return
	}

	for _, ind := range front {
		ind.CrowdingDistance = 0
	}

	for o := 0; o < numObjectives; o++ {
		sort.Slice(front, func(i, j int) bool {
			return objective(front[i], o) < objective(front[j], o)
		})

		front[0].CrowdingDistance = 1e5
		front[len(front)-1].CrowdingDistance = 1e5

		scale := objective(front[len(front)-1], o) - objective(front[0], o)
		if scale == 0 {
			scale = 1
		}
		for i := 1; i < len(front)-1; i++ {
			front[i].CrowdingDistance += (objective(front[i+1], o) - objective(front[i-1], o)) / scale
		}
	}
}

// tournamentSelect picks one parent by binary tournament: two distinct
// population members are drawn uniformly; the one with lower rank wins,
// ties broken by higher crowding distance.
func tournamentSelect(population []*pack.Individual, rng *rand.Rand) *pack.Individual {
	n := len(population)
	i := rng.Intn(n)
	j := i
	if n > 1 {
		j = rng.Intn(n - 1)
		if j >= i {
			j++
		}
	}
	a, b := population[i], population[j]
	if a.Rank < b.Rank || (a.Rank == b.Rank && a.CrowdingDistance > b.CrowdingDistance) {
		return a
	}
	return b
}

// selectParents returns two distinct parents from population, retrying
// the second tournament until it differs (by identity) from the first.
func selectParents(population []*pack.Individual, rng *rand.Rand) (*pack.Individual, *pack.Individual) {
	p1 := tournamentSelect(population, rng)
	var p2 *pack.Individual
	for {
		p2 = tournamentSelect(population, rng)
		if p2 != p1 {
			break
		}
	}
	return p1, p2
}

// GA is one NSGA-II run over a fixed container size.
type GA struct {
	Config              Config
	GridX, GridY, GridZ int
	Rng                 *rand.Rand
	Sink                progress.Sink
}

// NewGA constructs a GA. sink may be nil, in which case progress.Noop is
// used.
func NewGA(cfg Config, gridX, gridY, gridZ int, rng *rand.Rand, sink progress.Sink) *GA {
	if sink == nil {
		sink = progress.Noop{}
	}
	return &GA{Config: cfg, GridX: gridX, GridY: gridY, GridZ: gridZ, Rng: rng, Sink: sink}
}

// Step advances population by exactly one generation: select, PMX
// crossover, mutate, decode the children, then truncate the combined
// parent+child population back to Config.PopulationSize by (rank,
// crowding distance). It performs no progress emission and no logging of
// its own; Run wraps it with both.
func (g *GA) Step(population []*pack.Individual) []*pack.Individual {
	children := g.generateChildren(population)
	combined := append(append([]*pack.Individual{}, population...), children...)

	fronts := NonDominatedSort(combined)

	next := make([]*pack.Individual, 0, g.Config.PopulationSize)
	frontIdx := 0
	for frontIdx < len(fronts) && len(next)+len(fronts[frontIdx]) <= g.Config.PopulationSize {
		CrowdingDistance(fronts[frontIdx])
		next = append(next, fronts[frontIdx]...)
		frontIdx++
	}
	if len(next) < g.Config.PopulationSize && frontIdx < len(fronts) {
		overflow := fronts[frontIdx]
		CrowdingDistance(overflow)
		sort.Slice(overflow, func(i, j int) bool {
			return overflow[i].CrowdingDistance > overflow[j].CrowdingDistance
		})
		next = append(next, overflow[:g.Config.PopulationSize-len(next)]...)
	}
	return next
}

// Run evolves the given initial population (already decoded) for
// Config.MaxGenerations generations and returns the final population,
// sized exactly Config.PopulationSize. roomID is forwarded verbatim to
// the progress sink. Run emits StatusRunBegin/StatusRunEnd around the
// whole call and a GenerationEvent after every Step; a caller needing
// per-generation hooks (tracing spans, history sampling) should drive
// Step directly instead, as driver.Driver does.
func (g *GA) Run(ctx context.Context, initial []*pack.Individual, roomID string) []*pack.Individual {
	logger := klog.FromContext(ctx).WithValues("component", "nsga2")
	logger.Info("starting GA run", "populationSize", g.Config.PopulationSize, "maxGenerations", g.Config.MaxGenerations)
	g.Sink.EmitStatus(progress.StatusRunBegin, roomID)

	population := initial
	NonDominatedSort(population)
	for _, front := range g.frontsOf(population) {
		CrowdingDistance(front)
	}

	start := time.Now()
	for gen := 0; gen < g.Config.MaxGenerations; gen++ {
		genStart := time.Now()

		population = g.Step(population)

		elapsed := time.Since(start).Seconds()
		rate := 0.0
		if elapsed > 0 {
			rate = float64(gen+1) / elapsed
		}
		g.Sink.EmitProgress(progress.GenerationEvent{
			Current:        gen + 1,
			Total:          g.Config.MaxGenerations,
			Rate:           rate,
			ElapsedSeconds: elapsed,
		}, roomID)

		logger.V(2).Info("generation complete", "generation", gen+1, "populationSize", len(population), "tookSeconds", time.Since(genStart).Seconds())
	}

	g.Sink.EmitStatus(progress.StatusRunEnd, roomID)
	logger.Info("GA run complete", "generations", g.Config.MaxGenerations)
	return population
}

// frontsOf is a convenience wrapper used only for the initial-population
// crowding pass in Run, where the fronts from NonDominatedSort are
// reconstructed from Rank rather than recomputed.
func (g *GA) frontsOf(population []*pack.Individual) [][]*pack.Individual {
	byRank := map[int][]*pack.Individual{}
	maxRank := 0
	for _, ind := range population {
		byRank[ind.Rank] = append(byRank[ind.Rank], ind)
		if ind.Rank > maxRank {
			maxRank = ind.Rank
		}
	}
	fronts := make([][]*pack.Individual, 0, maxRank+1)
	for r := 0; r <= maxRank; r++ {
		fronts = append(fronts, byRank[r])
	}
	return fronts
}

// generateChildren produces len(population) children via tournament
// selection, PMX crossover and probabilistic mutation, one pair of
// parents per child.
func (g *GA) generateChildren(population []*pack.Individual) []*pack.Individual {
	children := make([]*pack.Individual, 0, len(population))
	for len(children) < len(population) {
		p1, p2 := selectParents(population, g.Rng)
		childChromosome := PMX(p1.Boxes, p2.Boxes, g.Rng)
		if g.Rng.Float64() < g.Config.MutationProbability {
			Mutate(childChromosome, g.Rng)
		}
		children = append(children, pack.NewIndividual(childChromosome, g.GridX, g.GridY, g.GridZ))
	}
	return children
}

// bestObjective is a small helper the driver/metrics layers use to report
// a single scalar "current best" per objective without pulling in the
// ranker package.
func bestObjective(population []*pack.Individual, pick func(pack.Objectives) float64, minimize bool) float64 {
	if len(population) == 0 {
		return math.NaN()
	}
	best := pick(population[0].Objectives)
	for _, ind := range population[1:] {
		v := pick(ind.Objectives)
		if (minimize && v < best) || (!minimize && v > best) {
			best = v
		}
	}
	return best
}

// BestVolume returns the highest volume observed in population.
func BestVolume(population []*pack.Individual) float64 {
	return bestObjective(population, func(o pack.Objectives) float64 { return o.Volume }, false)
}

// BestWeight returns the highest weight observed in population.
func BestWeight(population []*pack.Individual) float64 {
	return bestObjective(population, func(o pack.Objectives) float64 { return o.Weight }, false)
}

// BestCenterOfMass returns the lowest center-of-mass distance observed in
// population.
func BestCenterOfMass(population []*pack.Individual) float64 {
	return bestObjective(population, func(o pack.Objectives) float64 { return o.CenterOfMass }, true)
}
