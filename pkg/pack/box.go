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

// Package pack implements the deepest-bottom-left-fill decoder and the
// NSGA-II data model (boxes, individuals, populations, dominance) used to
// pack a container with boxes under three competing objectives.
package pack

// Box is a single item to place. It is a value type: passing or assigning a
// Box copies it, so two Individuals never share placement state for what
// was logically "the same" box.
type Box struct {
	// Code identifies the box within a chromosome. 1-based, unique within
	// an Individual.
	Code int

	// Length, Width and Height are the box's un-rotated dimensions.
	Length, Width, Height int

	// Weight is non-negative.
	Weight float64

	// Orientation is 0 or 1. 1 swaps Length and Width in GetShape; Height
	// is never rotated.
	Orientation int

	// Placed reports whether PosX/PosY/PosZ have been set by the decoder.
	Placed bool
	PosX   int
	PosY   int
	PosZ   int
}

// GetShape returns the box's effective footprint (l, w, h) after applying
// its orientation bit.
func (b Box) GetShape() (l, w, h int) {
	if b.Orientation == 1 {
		return b.Width, b.Length, b.Height
	}
	return b.Length, b.Width, b.Height
}

// Volume returns the box's un-rotated volume (orientation never changes
// volume).
func (b Box) Volume() float64 {
	return float64(b.Length * b.Width * b.Height)
}

// Center returns the box's center point given its current placement and
// effective shape.
func (b Box) Center() (x, y, z float64) {
	l, w, h := b.GetShape()
	return float64(b.PosX) + float64(l)/2,
		float64(b.PosY) + float64(w)/2,
		float64(b.PosZ) + float64(h)/2
}
