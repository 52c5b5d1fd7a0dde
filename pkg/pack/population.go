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

// Population is an ordered collection of Individuals plus the Pareto
// front partition computed by the last non-dominated sort. Fronts is
// rebuilt every generation; an Individual appears in at most one front.
type Population struct {
	Individuals []*Individual
	Fronts      [][]*Individual
}

// NewPopulation wraps a slice of Individuals. Fronts is empty until the
// caller runs a non-dominated sort over it.
func NewPopulation(individuals []*Individual) *Population {
	return &Population{Individuals: individuals}
}

// Len reports the population size.
func (p *Population) Len() int {
	return len(p.Individuals)
}

// PopulationRow is one tabular record of an Individual, suitable for a
// caller to render as CSV or any other export format. pack itself never
// writes files; it only builds the rows.
type PopulationRow struct {
	Fitness      float64
	CenterOfMass float64
	Volume       float64
	Weight       float64
	Codes        []int
	Orientations []int
}

// Rows builds one PopulationRow per Individual, in population order. The
// Fitness field reflects whatever value was last assigned to
// Individual.Fitness by a Ranker call; it is not recomputed here.
func (p *Population) Rows() []PopulationRow {
	rows := make([]PopulationRow, len(p.Individuals))
	for i, ind := range p.Individuals {
		codes := make([]int, len(ind.Boxes))
		orientations := make([]int, len(ind.Boxes))
		for j, b := range ind.Boxes {
			codes[j] = b.Code
			orientations[j] = b.Orientation
		}
		rows[i] = PopulationRow{
			Fitness:      ind.Fitness,
			CenterOfMass: ind.Objectives.CenterOfMass,
			Volume:       ind.Objectives.Volume,
			Weight:       ind.Objectives.Weight,
			Codes:        codes,
			Orientations: orientations,
		}
	}
	return rows
}
