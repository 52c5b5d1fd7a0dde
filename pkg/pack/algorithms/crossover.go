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

// Package algorithms implements the NSGA-II engine: fast non-dominated
// sorting, crowding distance, tournament selection, PMX crossover and
// orientation-aware mutation over the pack.Individual chromosome.
package algorithms

import (
	"golang.org/x/exp/rand"

	"github.com/binpack-nsga2/packer/pkg/pack"
)

// PMX performs partially-matched crossover on two parent chromosomes of
// equal length n, each gene a Box with a 1-based, unique Code. It returns
// a single child chromosome that is a valid permutation of the parents'
// codes; orientations ride along with their boxes.
func PMX(p1, p2 []pack.Box, rng *rand.Rand) []pack.Box {
	n := len(p1)

	pos2 := make([]int, n+1)
	for i, b := range p2 {
		pos2[b.Code] = i
	}

	cx1 := rng.Intn(n + 1)
	cx2 := rng.Intn(n)
	if cx2 >= cx1 {
		cx2++
	} else {
		cx1, cx2 = cx2, cx1
	}

	child := make([]pack.Box, n)
	occupied := make([]bool, n)
	done := make([]bool, n+1)

	for i := cx1; i < cx2; i++ {
		child[i] = p1[i]
		occupied[i] = true
		done[p1[i].Code] = true
	}

	for i := cx1; i < cx2; i++ {
		if done[p2[i].Code] {
			continue
		}
		k := pos2[p1[i].Code]
		for occupied[k] {
			k = pos2[p1[k].Code]
		}
		child[k] = p2[i]
		occupied[k] = true
		done[p2[i].Code] = true
	}

	cursor := 0
	for _, b := range p2 {
		if done[b.Code] {
			continue
		}
		for occupied[cursor] {
			cursor++
		}
		child[cursor] = b
		occupied[cursor] = true
		done[b.Code] = true
	}

	return child
}

// Mutate applies the chromosome-level mutation step: with 50% probability
// swap the genes at two uniformly chosen positions (which may coincide),
// otherwise flip the orientation bit of one randomly chosen gene. It mutates chromosome in place.
func Mutate(chromosome []pack.Box, rng *rand.Rand) {
	n := len(chromosome)
	if n == 0 {
		return
	}
	if rng.Float64() < 0.5 {
		i := rng.Intn(n)
		j := rng.Intn(n)
		chromosome[i], chromosome[j] = chromosome[j], chromosome[i]
		return
	}
	i := rng.Intn(n)
	chromosome[i].Orientation = (chromosome[i].Orientation + 1) % 2
}
