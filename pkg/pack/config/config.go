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

// Package config models one GA request: container dimensions, box
// templates and algorithm parameters, with the defaulting/validation
// split the rest of the module's ambient stack uses throughout.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/binpack-nsga2/packer/pkg/pack"
)

const (
	DefaultPopulationSize      = 50
	DefaultMaxGenerations      = 200
	DefaultMutationProbability = 0.1
	DefaultTournamentSize      = 2
)

// Request is one GA run's input. BoxRecord entries mirror the source
// format's tuple shape: (code, length, width, height, weight[,
// orientation]); the trailing orientation is optional.
type Request struct {
	Boxes                [][]float64 `json:"boxes"`
	GridX                int         `json:"grid_x"`
	GridY                int         `json:"grid_y"`
	GridZ                int         `json:"grid_z"`
	MutationProbability  float64     `json:"mutation_probability"`
	MaxGeneration        int         `json:"max_generation"`
	PopulationSize       int         `json:"population_size"`
	TournamentSize       int         `json:"tournament_size"`
	// History enables per-generation best-of-objective snapshot
	// collection in Driver.Run.
	History bool `json:"history"`
}

// SetDefaults fills in zero-valued fields with the package defaults.
// GridX/GridY/GridZ and Boxes are never defaulted: a request without a
// container or box list is meaningless and Validate rejects it.
func (r *Request) SetDefaults() {
	if r.PopulationSize == 0 {
		r.PopulationSize = DefaultPopulationSize
	}
	if r.MaxGeneration == 0 {
		r.MaxGeneration = DefaultMaxGenerations
	}
	if r.MutationProbability == 0 {
		r.MutationProbability = DefaultMutationProbability
	}
	if r.TournamentSize == 0 {
		r.TournamentSize = DefaultTournamentSize
	}
}

// Validate checks field ranges and existence of a pre-condition violation
// (population_size == 0). It does not validate individual box records;
// call ParseBoxes for that, which returns pack.ErrInvalidBoxRecord on a
// malformed tuple.
func (r *Request) Validate() error {
	if r.PopulationSize <= 0 {
		return pack.ErrEmptyPopulation
	}
	if r.GridX <= 0 || r.GridY <= 0 || r.GridZ <= 0 {
		return fmt.Errorf("config: grid dimensions must be positive, got (%d,%d,%d)", r.GridX, r.GridY, r.GridZ)
	}
	if r.MutationProbability < 0 || r.MutationProbability > 1 {
		return fmt.Errorf("config: mutation_probability must be in [0,1], got %v", r.MutationProbability)
	}
	if r.MaxGeneration < 0 {
		return fmt.Errorf("config: max_generation must be non-negative, got %d", r.MaxGeneration)
	}
	if len(r.Boxes) == 0 {
		return fmt.Errorf("config: at least one box template is required")
	}
	return nil
}

// ParseBoxes converts the request's raw box tuples into pack.Box
// templates. A tuple with neither 5 nor 6 fields is fatal and returns
// pack.ErrInvalidBoxRecord. The returned randomize mask marks, by
// template index, which boxes omitted orientation in the input; the
// caller (the driver, building one Individual at a time) is responsible
// for rolling a fresh orientation per Individual for those indices, per
// the RNG-surface contract in DESIGN.md.
func (r *Request) ParseBoxes() (templates []pack.Box, randomize []bool, err error) {
	templates = make([]pack.Box, len(r.Boxes))
	randomize = make([]bool, len(r.Boxes))
	for i, rec := range r.Boxes {
		if len(rec) != 5 && len(rec) != 6 {
			return nil, nil, fmt.Errorf("%w: box %d has %d fields, want 5 or 6", pack.ErrInvalidBoxRecord, i, len(rec))
		}
		orientation := 0
		if len(rec) == 6 {
			orientation = int(rec[5])
		} else {
			randomize[i] = true
		}
		templates[i] = pack.Box{
			Code:        int(rec[0]),
			Length:      int(rec[1]),
			Width:       int(rec[2]),
			Height:      int(rec[3]),
			Weight:      rec[4],
			Orientation: orientation,
		}
	}
	return templates, randomize, nil
}

// Load reads a GA request from a JSON or YAML file at path. Both formats
// are accepted through the same call since sigs.k8s.io/yaml treats JSON
// as a subset of YAML.
func Load(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &req, nil
}
