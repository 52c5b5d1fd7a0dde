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

// Package app wires the binpacker command tree with cobra, mirroring the
// command-tree layout used throughout the descheduler family of tools.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/binpack-nsga2/packer/pkg/driver"
	"github.com/binpack-nsga2/packer/pkg/pack/config"
	"github.com/binpack-nsga2/packer/pkg/pack/metrics"
)

// runOptions holds the flags of the "run" subcommand.
type runOptions struct {
	requestFile          string
	populationSize       int
	maxGeneration        int
	mutationProbability  float64
	seed                 int64
}

// NewCommand builds the root binpacker command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "binpacker",
		Short: "Pack a container with boxes using multi-objective NSGA-II optimization",
	}
	cmd.AddCommand(newRunCommand())
	return cmd
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{seed: 1}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one GA request and print the resulting exemplar packings as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.requestFile, "request", "", "path to a JSON or YAML GA request (required)")
	flags.IntVar(&opts.populationSize, "population-size", 0, "overrides the request's population_size when > 0")
	flags.IntVar(&opts.maxGeneration, "max-generation", 0, "overrides the request's max_generation when > 0")
	flags.Float64Var(&opts.mutationProbability, "mutation-probability", 0, "overrides the request's mutation_probability when > 0")
	flags.Int64Var(&opts.seed, "seed", 1, "RNG seed for deterministic runs")
	cmd.MarkFlagRequired("request")

	return cmd
}

func runE(cmd *cobra.Command, opts *runOptions) error {
	logger := klog.Background()
	ctx := klog.NewContext(cmd.Context(), logger)

	req, err := config.Load(opts.requestFile)
	if err != nil {
		return err
	}
	if opts.populationSize > 0 {
		req.PopulationSize = opts.populationSize
	}
	if opts.maxGeneration > 0 {
		req.MaxGeneration = opts.maxGeneration
	}
	if opts.mutationProbability > 0 {
		req.MutationProbability = opts.mutationProbability
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	rng := rand.New(rand.NewSource(uint64(opts.seed)))

	d := driver.New(m, nil, nil, rng)

	start := time.Now()
	result, err := d.Run(ctx, req, "cli")
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	logger.Info("run finished", "tookSeconds", time.Since(start).Seconds())

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result.Exemplars)
}
