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

// Package ranker computes the composite, min-max-normalized fitness used
// to pick exemplars out of a finished population, independent of NSGA-II
// rank and crowding distance.
package ranker

import (
	"math"
	"sort"

	"github.com/binpack-nsga2/packer/pkg/pack"
)

// Criterion selects which field Rank sorts by.
type Criterion string

const (
	Fitness      Criterion = "fitness"
	Volume       Criterion = "volume"
	Weight       Criterion = "weight"
	CenterOfMass Criterion = "center_of_mass"
)

func minMax(values []float64) (min, max float64) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func scaleOf(min, max float64) float64 {
	scale := max - min
	if scale == 0 {
		return 1
	}
	return scale
}

// ComputeFitness min-max normalizes volume, weight and center_of_mass
// across individuals and writes the composite score into each
// Individual's Fitness field. center_of_mass is inverted since it is
// minimized; volume and weight are maximized.
func ComputeFitness(individuals []*pack.Individual) {
	if len(individuals) == 0 {
		return
	}

	volumes := make([]float64, len(individuals))
	weights := make([]float64, len(individuals))
	coms := make([]float64, len(individuals))
	for i, ind := range individuals {
		volumes[i] = ind.Objectives.Volume
		weights[i] = ind.Objectives.Weight
		coms[i] = ind.Objectives.CenterOfMass
	}

	volMin, volMax := minMax(volumes)
	weiMin, weiMax := minMax(weights)
	comMin, comMax := minMax(coms)
	volScale := scaleOf(volMin, volMax)
	weiScale := scaleOf(weiMin, weiMax)
	comScale := scaleOf(comMin, comMax)

	for _, ind := range individuals {
		f := 1 - (ind.Objectives.CenterOfMass-comMin)/comScale
		f += (ind.Objectives.Weight - weiMin) / weiScale
		f += (ind.Objectives.Volume - volMin) / volScale
		ind.Fitness = f
	}
}

// Rank recomputes composite fitness over individuals and returns a new
// slice sorted by criterion: descending for fitness/volume/weight,
// ascending for center_of_mass. The input slice is left in its original
// order; only Individual.Fitness is mutated as a side effect.
func Rank(individuals []*pack.Individual, criterion Criterion) []*pack.Individual {
	ComputeFitness(individuals)

	sorted := make([]*pack.Individual, len(individuals))
	copy(sorted, individuals)

	switch criterion {
	case Volume:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Objectives.Volume > sorted[j].Objectives.Volume
		})
	case Weight:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Objectives.Weight > sorted[j].Objectives.Weight
		})
	case CenterOfMass:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Objectives.CenterOfMass < sorted[j].Objectives.CenterOfMass
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Fitness > sorted[j].Fitness
		})
	}
	return sorted
}

// Exemplar returns the top-ranked Individual under criterion, or nil if
// individuals is empty.
func Exemplar(individuals []*pack.Individual, criterion Criterion) *pack.Individual {
	ranked := Rank(individuals, criterion)
	if len(ranked) == 0 {
		return nil
	}
	return ranked[0]
}

// ObjectiveCorrelation computes the Spearman rank correlation between
// each pair of the three objectives across front, returning a symmetric
// 3x3 matrix indexed [volume, weight, center_of_mass]. Useful for
// diagnosing whether two objectives are secretly coupled in a given
// Pareto front.
func ObjectiveCorrelation(front []*pack.Individual) [3][3]float64 {
	var matrix [3][3]float64
	n := len(front)
	if n < 2 {
		for i := range matrix {
			matrix[i][i] = 1
		}
		return matrix
	}

	series := [3][]float64{
		make([]float64, n),
		make([]float64, n),
		make([]float64, n),
	}
	for i, ind := range front {
		series[0][i] = ind.Objectives.Volume
		series[1][i] = ind.Objectives.Weight
		series[2][i] = ind.Objectives.CenterOfMass
	}

	ranks := [3][]float64{rank(series[0]), rank(series[1]), rank(series[2])}

	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			matrix[a][b] = spearman(ranks[a], ranks[b])
		}
	}
	return matrix
}

// rank returns the 1-based rank of each element of values, averaging
// ranks across ties.
func rank(values []float64) []float64 {
	type indexed struct {
		value float64
		index int
	}
	idx := make([]indexed, len(values))
	for i, v := range values {
		idx[i] = indexed{v, i}
	}
	sort.Slice(idx, func(i, j int) bool { return idx[i].value < idx[j].value })

	ranks := make([]float64, len(values))
	i := 0
	for i < len(idx) {
		j := i
		for j < len(idx) && idx[j].value == idx[i].value {
			j++
		}
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k].index] = avgRank
		}
		i = j
	}
	return ranks
}

// spearman is the Pearson correlation of two rank sequences of equal
// length; Spearman's rho is exactly Pearson's r computed on ranks.
func spearman(a, b []float64) float64 {
	n := float64(len(a))
	if n == 0 {
		return 0
	}
	var sumA, sumB, sumAB, sumA2, sumB2 float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
		sumAB += a[i] * b[i]
		sumA2 += a[i] * a[i]
		sumB2 += b[i] * b[i]
	}
	numerator := n*sumAB - sumA*sumB
	denomA := n*sumA2 - sumA*sumA
	denomB := n*sumB2 - sumB*sumB
	if denomA <= 0 || denomB <= 0 {
		return 0
	}
	return numerator / math.Sqrt(denomA*denomB)
}
