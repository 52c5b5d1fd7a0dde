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

// Dominates reports whether a dominates b: weakly better on all three
// objectives and strictly better on at least one. Volume is maximized;
// Weight and CenterOfMass are minimized.
func Dominates(a, b *Individual) bool {
	if a.Objectives.Volume < b.Objectives.Volume ||
		a.Objectives.Weight > b.Objectives.Weight ||
		a.Objectives.CenterOfMass > b.Objectives.CenterOfMass {
		return false
	}
	return a.Objectives.Volume > b.Objectives.Volume ||
		a.Objectives.Weight < b.Objectives.Weight ||
		a.Objectives.CenterOfMass < b.Objectives.CenterOfMass
}
