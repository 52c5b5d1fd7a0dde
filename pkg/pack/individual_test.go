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
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// S1 - single box fits exactly.
func TestIndividualSingleBoxFitsExactly(t *testing.T) {
	boxes := []Box{{Code: 1, Length: 2, Width: 2, Height: 2, Weight: 5, Orientation: 0}}
	ind := NewIndividual(boxes, 2, 2, 2)

	if len(ind.InsertedBoxes) != 1 {
		t.Fatalf("InsertedBoxes = %d boxes, want 1", len(ind.InsertedBoxes))
	}
	placed := ind.InsertedBoxes[0]
	if placed.PosX != 0 || placed.PosY != 0 || placed.PosZ != 0 {
		t.Errorf("placed at (%d,%d,%d), want (0,0,0)", placed.PosX, placed.PosY, placed.PosZ)
	}
	if ind.Objectives.Volume != 8 {
		t.Errorf("Volume = %v, want 8", ind.Objectives.Volume)
	}
	if ind.Objectives.Weight != 5 {
		t.Errorf("Weight = %v, want 5", ind.Objectives.Weight)
	}
	if !almostEqual(ind.Objectives.CenterOfMass, 0) {
		t.Errorf("CenterOfMass = %v, want 0", ind.Objectives.CenterOfMass)
	}
}

// S2 - box too tall for the container.
func TestIndividualBoxTooTall(t *testing.T) {
	boxes := []Box{{Code: 1, Length: 2, Width: 2, Height: 2, Weight: 5, Orientation: 0}}
	ind := NewIndividual(boxes, 2, 2, 1)

	if len(ind.InsertedBoxes) != 0 {
		t.Fatalf("InsertedBoxes = %d boxes, want 0", len(ind.InsertedBoxes))
	}
	if ind.Objectives.Volume != 0 || ind.Objectives.Weight != 0 {
		t.Errorf("objectives = %+v, want zero volume and weight", ind.Objectives)
	}
	if ind.MaxHeight != 0 {
		t.Errorf("MaxHeight = %d, want 0", ind.MaxHeight)
	}
	want := math.Sqrt(2)
	if !almostEqual(ind.Objectives.CenterOfMass, want) {
		t.Errorf("CenterOfMass = %v, want %v", ind.Objectives.CenterOfMass, want)
	}
}

// S3 - two unit cubes stack.
func TestIndividualTwoUnitCubesStack(t *testing.T) {
	boxes := []Box{
		{Code: 1, Length: 1, Width: 1, Height: 1, Weight: 1, Orientation: 0},
		{Code: 2, Length: 1, Width: 1, Height: 1, Weight: 1, Orientation: 0},
	}
	ind := NewIndividual(boxes, 1, 1, 2)

	if len(ind.InsertedBoxes) != 2 {
		t.Fatalf("InsertedBoxes = %d boxes, want 2", len(ind.InsertedBoxes))
	}
	b1, b2 := ind.InsertedBoxes[0], ind.InsertedBoxes[1]
	if b1.PosX != 0 || b1.PosY != 0 || b1.PosZ != 0 {
		t.Errorf("box 1 at (%d,%d,%d), want (0,0,0)", b1.PosX, b1.PosY, b1.PosZ)
	}
	if b2.PosX != 0 || b2.PosY != 0 || b2.PosZ != 1 {
		t.Errorf("box 2 at (%d,%d,%d), want (0,0,1)", b2.PosX, b2.PosY, b2.PosZ)
	}
	if ind.MaxHeight != 2 {
		t.Errorf("MaxHeight = %d, want 2", ind.MaxHeight)
	}
	if ind.Objectives.Volume != 2 || ind.Objectives.Weight != 2 {
		t.Errorf("objectives = %+v, want volume=2 weight=2", ind.Objectives)
	}
	if !almostEqual(ind.Objectives.CenterOfMass, 0) {
		t.Errorf("CenterOfMass = %v, want 0", ind.Objectives.CenterOfMass)
	}
}

// S4 - orientation changes whether a box fits.
func TestIndividualOrientation(t *testing.T) {
	rotated := []Box{{Code: 1, Length: 1, Width: 2, Height: 1, Weight: 1, Orientation: 1}}
	ind := NewIndividual(rotated, 2, 1, 1)
	if len(ind.InsertedBoxes) != 1 {
		t.Fatalf("rotated box not placed, InsertedBoxes = %d", len(ind.InsertedBoxes))
	}
	placed := ind.InsertedBoxes[0]
	if placed.PosX != 0 || placed.PosY != 0 || placed.PosZ != 0 {
		t.Errorf("placed at (%d,%d,%d), want (0,0,0)", placed.PosX, placed.PosY, placed.PosZ)
	}

	unrotated := []Box{{Code: 1, Length: 1, Width: 2, Height: 1, Weight: 1, Orientation: 0}}
	ind2 := NewIndividual(unrotated, 2, 1, 1)
	if len(ind2.InsertedBoxes) != 0 {
		t.Errorf("unrotated box should not fit, but was placed")
	}
}

// Invariant 2/3/4: no-overlap, support, in-bounds on a denser scene.
func TestIndividualNoOverlapSupportInBounds(t *testing.T) {
	boxes := []Box{
		{Code: 1, Length: 2, Width: 2, Height: 1, Weight: 1},
		{Code: 2, Length: 2, Width: 2, Height: 1, Weight: 1},
		{Code: 3, Length: 1, Width: 1, Height: 1, Weight: 1},
	}
	ind := NewIndividual(boxes, 4, 4, 4)

	for i, a := range ind.InsertedBoxes {
		al, aw, ah := a.GetShape()
		if a.PosX+al > ind.GridX || a.PosY+aw > ind.GridY || a.PosZ+ah > ind.GridZ {
			t.Errorf("box %d out of bounds", a.Code)
		}
		if a.PosZ > 0 {
			support := 0.0
			for _, c := range ind.InsertedBoxes {
				cl, cw, ch := c.GetShape()
				if c.PosZ+ch != a.PosZ {
					continue
				}
				ix := min(a.PosX+al, c.PosX+cl) - max(a.PosX, c.PosX)
				iy := min(a.PosY+aw, c.PosY+cw) - max(a.PosY, c.PosY)
				if ix > 0 && iy > 0 {
					support += float64(ix * iy)
				}
			}
			if support != float64(al*aw) {
				t.Errorf("box %d at z=%d has support %v, want %v", a.Code, a.PosZ, support, al*aw)
			}
		}
		for j, b := range ind.InsertedBoxes {
			if i == j {
				continue
			}
			bl, bw, bh := b.GetShape()
			overlapsXY := float64(a.PosX)+0.5 < float64(b.PosX+bl) && float64(b.PosX) < float64(a.PosX+al)-0.5 &&
				float64(a.PosY)+0.5 < float64(b.PosY+bw) && float64(b.PosY) < float64(a.PosY+aw)-0.5
			overlapsZ := a.PosZ < b.PosZ+bh && b.PosZ < a.PosZ+ah
			if overlapsXY && overlapsZ {
				t.Errorf("boxes %d and %d overlap", a.Code, b.Code)
			}
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
