//go:build tools

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

// Package tools pins build-time tool dependencies in go.mod without
// letting them leak into the regular build graph. Nothing here runs;
// `go build ./...` never compiles this file since it carries the "tools"
// build tag.
package tools

import (
	_ "github.com/client9/misspell/cmd/misspell"
)
