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

package ranker

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/binpack-nsga2/packer/pkg/pack"
)

func individualWith(volume, weight, com float64) *pack.Individual {
	return &pack.Individual{Objectives: pack.Objectives{Volume: volume, Weight: weight, CenterOfMass: com}}
}

func codesOf(individuals []*pack.Individual) []float64 {
	codes := make([]float64, len(individuals))
	for i, ind := range individuals {
		codes[i] = ind.Objectives.Volume
	}
	return codes
}

// Invariant 9: normalization idempotence.
func TestRankIdempotent(t *testing.T) {
	individuals := []*pack.Individual{
		individualWith(10, 1, 5),
		individualWith(5, 3, 2),
		individualWith(8, 2, 1),
	}

	first := codesOf(Rank(individuals, Fitness))
	second := codesOf(Rank(individuals, Fitness))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ranking is not idempotent (-first +second):\n%s", diff)
	}
}

func TestRankOrderingDirection(t *testing.T) {
	individuals := []*pack.Individual{
		individualWith(10, 1, 5),
		individualWith(5, 3, 2),
		individualWith(8, 2, 1),
	}

	byVolume := Rank(individuals, Volume)
	if byVolume[0].Objectives.Volume != 10 {
		t.Errorf("Volume ranking should be descending, got %v first", byVolume[0].Objectives.Volume)
	}

	byCoM := Rank(individuals, CenterOfMass)
	if byCoM[0].Objectives.CenterOfMass != 1 {
		t.Errorf("CenterOfMass ranking should be ascending, got %v first", byCoM[0].Objectives.CenterOfMass)
	}
}

func TestExemplarEmptyCollection(t *testing.T) {
	if Exemplar(nil, Fitness) != nil {
		t.Error("Exemplar of an empty collection should be nil")
	}
}

func TestObjectiveCorrelationSelfCorrelationIsOne(t *testing.T) {
	front := []*pack.Individual{
		individualWith(1, 3, 5),
		individualWith(2, 2, 4),
		individualWith(3, 1, 3),
	}
	matrix := ObjectiveCorrelation(front)
	for i := 0; i < 3; i++ {
		if matrix[i][i] < 0.999 {
			t.Errorf("matrix[%d][%d] = %v, want ~1 (self-correlation)", i, i, matrix[i][i])
		}
	}
}
