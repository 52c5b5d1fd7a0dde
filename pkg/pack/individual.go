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

package pack

import (
	"math"
	"sort"
)

// position is a candidate anchor corner in the decoder's frontier.
type position struct {
	X, Y, Z int
}

// Objectives holds the three competing measures of a packing. Volume is
// maximized and CenterOfMass is minimized. Weight counts as better when
// higher in the ranker's composite fitness, but as better when lower in
// Dominates.
type Objectives struct {
	Volume       float64
	Weight       float64
	CenterOfMass float64
}

// Individual is a candidate packing: a chromosome (permutation of Box
// templates, each with its own orientation bit) decoded into a concrete
// placement by deepest-bottom-left-fill.
type Individual struct {
	GridX, GridY, GridZ int

	// Boxes is the chromosome in genotype order.
	Boxes []Box

	// InsertedBoxes is the subset of Boxes that were placed, in insertion
	// order, each carrying concrete coordinates.
	InsertedBoxes []Box

	// positionSet is the decoder's frontier of candidate anchors, kept
	// sorted by (z, y, x) ascending after every insertion. It is a list,
	// not a set: the same anchor can appear more than once, and
	// deduplication is deliberately not performed.
	positionSet []position

	MaxHeight int

	Objectives Objectives

	// NSGA-II bookkeeping, recomputed every generation by the GA engine.
	Rank               int
	CrowdingDistance   float64
	DominationCount    int
	DominatedSolutions []int

	// Fitness is the Ranker's composite score. It is stale until Rank
	// is (re)computed by ranker.Rank.
	Fitness float64
}

// NewIndividual builds an Individual from a chromosome and decodes it
// immediately: placement and objectives are both populated before this
// function returns.
func NewIndividual(boxes []Box, gridX, gridY, gridZ int) *Individual {
	ind := &Individual{
		GridX:       gridX,
		GridY:       gridY,
		GridZ:       gridZ,
		Boxes:       boxes,
		positionSet: []position{{0, 0, 0}},
	}
	ind.decode()
	ind.computeObjectives()
	return ind
}

// decode runs deepest-bottom-left-fill: each box in chromosome order is
// placed at the first position in positionSet that satisfies validity; a
// box that fits nowhere is silently skipped.
func (ind *Individual) decode() {
	for _, box := range ind.Boxes {
		l, w, h := box.GetShape()

		placedAt := -1
		for i, p := range ind.positionSet {
			if ind.isValidInsert(p, l, w, h) {
				placedAt = i
				break
			}
		}
		if placedAt == -1 {
			continue
		}

		p := ind.positionSet[placedAt]
		ind.positionSet = append(ind.positionSet[:placedAt], ind.positionSet[placedAt+1:]...)
		ind.positionSet = append(ind.positionSet,
			position{p.X + l, p.Y, p.Z},
			position{p.X, p.Y + w, p.Z},
			position{p.X, p.Y, p.Z + h},
		)
		sort.Slice(ind.positionSet, func(i, j int) bool {
			a, b := ind.positionSet[i], ind.positionSet[j]
			if a.Z != b.Z {
				return a.Z < b.Z
			}
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return a.X < b.X
		})

		box.Placed = true
		box.PosX, box.PosY, box.PosZ = p.X, p.Y, p.Z
		ind.InsertedBoxes = append(ind.InsertedBoxes, box)
		if p.Z+h > ind.MaxHeight {
			ind.MaxHeight = p.Z + h
		}
	}
}

// isValidInsert tests in-bounds, non-overlap (0.5-shrunk on x/y, exact on
// z) and support for a box of shape (l,w,h) placed with its minimum
// corner at p.
func (ind *Individual) isValidInsert(p position, l, w, h int) bool {
	x, y, z := float64(p.X), float64(p.Y), float64(p.Z)
	fl, fw, fh := float64(l), float64(w), float64(h)

	if p.X+l > ind.GridX || p.Y+w > ind.GridY || p.Z+h > ind.GridZ {
		return false
	}

	nonHangingArea := 0.0
	for _, other := range ind.InsertedBoxes {
		ol, ow, oh := other.GetShape()
		ox, oy, oz := float64(other.PosX), float64(other.PosY), float64(other.PosZ)
		fol, fow, foh := float64(ol), float64(ow), float64(oh)

		overlapsXY := x+0.5 < ox+fol && ox < x+fl-0.5 &&
			y+0.5 < oy+fow && oy < y+fw-0.5
		overlapsZ := z < oz+foh && oz < z+fh
		if overlapsXY && overlapsZ {
			return false
		}

		if oz+foh == z {
			ix := math.Min(x+fl, ox+fol) - math.Max(x, ox)
			iy := math.Min(y+fw, oy+fow) - math.Max(y, oy)
			if ix > 0 && iy > 0 {
				nonHangingArea += ix * iy
			}
		}
	}

	if p.Z == 0 {
		return true
	}
	return nonHangingArea == fl*fw
}

// computeObjectives fills in ind.Objectives from ind.InsertedBoxes. It is
// idempotent and safe to call again after a mutation of InsertedBoxes.
func (ind *Individual) computeObjectives() {
	var volume, weight, cx, cy, cz float64
	for _, b := range ind.InsertedBoxes {
		volume += b.Volume()
		weight += b.Weight
		bx, by, bz := b.Center()
		cx += bx * b.Weight
		cy += by * b.Weight
		cz += bz * b.Weight
	}

	sumWeight := weight
	if sumWeight == 0 {
		sumWeight = 1
	}
	cx /= sumWeight
	cy /= sumWeight
	cz /= sumWeight

	dx := float64(ind.GridX)/2 - cx
	dy := float64(ind.GridY)/2 - cy
	dz := float64(ind.MaxHeight)/2 - cz

	ind.Objectives = Objectives{
		Volume:       volume,
		Weight:       weight,
		CenterOfMass: math.Sqrt(dx*dx + dy*dy + dz*dz),
	}
}
