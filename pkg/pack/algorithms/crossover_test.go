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
	"sort"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/binpack-nsga2/packer/pkg/pack"
)

func chromosomeOf(codes ...int) []pack.Box {
	boxes := make([]pack.Box, len(codes))
	for i, c := range codes {
		boxes[i] = pack.Box{Code: c, Length: 1, Width: 1, Height: 1, Weight: 1}
	}
	return boxes
}

func codesOf(boxes []pack.Box) []int {
	codes := make([]int, len(boxes))
	for i, b := range boxes {
		codes[i] = b.Code
	}
	return codes
}

// Invariant 1: permutation preservation under PMX, for many random cut
// points.
func TestPMXPreservesPermutation(t *testing.T) {
	p1 := chromosomeOf(1, 2, 3, 4, 5, 6, 7, 8)
	p2 := chromosomeOf(3, 7, 5, 1, 6, 8, 2, 4)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		child := PMX(p1, p2, rng)
		codes := codesOf(child)
		sort.Ints(codes)
		for i, c := range codes {
			if c != i+1 {
				t.Fatalf("trial %d: child codes = %v, not a permutation of 1..%d", trial, codesOf(child), len(p1))
			}
		}
	}
}

func TestMutateSwapOrFlip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	chromosome := chromosomeOf(1, 2, 3, 4, 5)
	before := codesOf(chromosome)

	for i := 0; i < 50; i++ {
		Mutate(chromosome, rng)
		codes := codesOf(chromosome)
		sort.Ints(codes)
		for i, c := range codes {
			if c != i+1 {
				t.Fatalf("mutate broke the permutation: %v (started from %v)", codesOf(chromosome), before)
			}
		}
	}
}
