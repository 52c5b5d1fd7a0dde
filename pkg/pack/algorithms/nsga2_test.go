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
	"testing"

	"golang.org/x/exp/rand"

	"github.com/binpack-nsga2/packer/pkg/pack"
	"github.com/binpack-nsga2/packer/pkg/pack/progress"
)

func individualWith(volume, weight, com float64) *pack.Individual {
	return &pack.Individual{Objectives: pack.Objectives{Volume: volume, Weight: weight, CenterOfMass: com}}
}

// Invariant 6: front cover - fronts partition the population, and front 0
// is exactly the set not dominated by anyone else.
func TestNonDominatedSortFrontCover(t *testing.T) {
	population := []*pack.Individual{
		individualWith(10, 1, 1), // non-dominated
		individualWith(5, 1, 1),  // dominated by the first
		individualWith(10, 2, 1), // dominated by the first (worse weight)
		individualWith(1, 1, 1),  // dominated by the first two
	}

	fronts := NonDominatedSort(population)

	seen := map[*pack.Individual]bool{}
	for _, front := range fronts {
		for _, ind := range front {
			if seen[ind] {
				t.Fatalf("individual appears in more than one front")
			}
			seen[ind] = true
		}
	}
	if len(seen) != len(population) {
		t.Fatalf("fronts cover %d individuals, want %d", len(seen), len(population))
	}

	for _, ind := range fronts[0] {
		for _, other := range population {
			if other == ind {
				continue
			}
			if pack.Dominates(other, ind) {
				t.Errorf("front 0 contains %v, dominated by %v", ind.Objectives, other.Objectives)
			}
		}
	}
}

// Invariant 7: boundary elements of a front of size >= 2 get crowding
// distance 1e5 on every objective.
func TestCrowdingDistanceExtremes(t *testing.T) {
	front := []*pack.Individual{
		individualWith(1, 10, 5),
		individualWith(5, 5, 3),
		individualWith(10, 1, 1),
	}
	CrowdingDistance(front)

	minVol, maxVol := front[0], front[0]
	for _, ind := range front {
		if ind.Objectives.Volume < minVol.Objectives.Volume {
			minVol = ind
		}
		if ind.Objectives.Volume > maxVol.Objectives.Volume {
			maxVol = ind
		}
	}
	if minVol.CrowdingDistance != 1e5 {
		t.Errorf("min-volume individual crowding distance = %v, want 1e5", minVol.CrowdingDistance)
	}
	if maxVol.CrowdingDistance != 1e5 {
		t.Errorf("max-volume individual crowding distance = %v, want 1e5", maxVol.CrowdingDistance)
	}
}

func TestCrowdingDistanceSmallFront(t *testing.T) {
	front := []*pack.Individual{individualWith(1, 1, 1), individualWith(2, 2, 2)}
	CrowdingDistance(front)
	for _, ind := range front {
		if ind.CrowdingDistance != 1e5 {
			t.Errorf("front of size 2 should have all-infinite crowding distance, got %v", ind.CrowdingDistance)
		}
	}
}

// Invariant 8: population-size stability across generations.
func TestGARunPreservesPopulationSize(t *testing.T) {
	boxes := []pack.Box{
		{Code: 1, Length: 1, Width: 1, Height: 1, Weight: 1},
		{Code: 2, Length: 1, Width: 1, Height: 1, Weight: 2},
		{Code: 3, Length: 1, Width: 1, Height: 1, Weight: 3},
	}

	const popSize = 6
	rng := rand.New(rand.NewSource(1))
	initial := make([]*pack.Individual, popSize)
	for i := range initial {
		chromosome := make([]pack.Box, len(boxes))
		copy(chromosome, boxes)
		rng.Shuffle(len(chromosome), func(a, b int) { chromosome[a], chromosome[b] = chromosome[b], chromosome[a] })
		initial[i] = pack.NewIndividual(chromosome, 3, 3, 3)
	}

	ga := NewGA(Config{
		PopulationSize:      popSize,
		MaxGenerations:      5,
		MutationProbability: 0.3,
		TournamentSize:      2,
	}, 3, 3, 3, rng, &progress.Recorder{})

	final := ga.Run(context.Background(), initial, "test")
	if len(final) != popSize {
		t.Errorf("final population size = %d, want %d", len(final), popSize)
	}
}

func TestGARunEmitsProgressInOrder(t *testing.T) {
	boxes := []pack.Box{{Code: 1, Length: 1, Width: 1, Height: 1, Weight: 1}}
	rng := rand.New(rand.NewSource(2))
	initial := []*pack.Individual{pack.NewIndividual(boxes, 1, 1, 1), pack.NewIndividual(boxes, 1, 1, 1)}

	recorder := &progress.Recorder{}
	ga := NewGA(Config{PopulationSize: 2, MaxGenerations: 3, MutationProbability: 0.1, TournamentSize: 2}, 1, 1, 1, rng, recorder)
	ga.Run(context.Background(), initial, "room")

	if len(recorder.Progress) != 3 {
		t.Fatalf("got %d progress events, want 3", len(recorder.Progress))
	}
	for i, event := range recorder.Progress {
		if event.Current != i+1 {
			t.Errorf("event %d has Current=%d, want %d", i, event.Current, i+1)
		}
	}
	if len(recorder.Statuses) != 2 || recorder.Statuses[0] != progress.StatusRunBegin || recorder.Statuses[1] != progress.StatusRunEnd {
		t.Errorf("statuses = %v, want [run-begin run-end]", recorder.Statuses)
	}
}
