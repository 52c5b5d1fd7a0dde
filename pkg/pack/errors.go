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

import "errors"

// ErrInvalidBoxRecord is returned when a box template cannot be parsed into
// a Box: it carries neither the 5-field (no orientation) nor the 6-field
// (orientation given) shape. It is fatal and aborts a run before the GA
// starts.
var ErrInvalidBoxRecord = errors.New("pack: invalid box record")

// ErrEmptyPopulation is returned when a request asks for a population_size
// of zero. Every other population size, including one, is a valid run.
var ErrEmptyPopulation = errors.New("pack: population size must be at least 1")
