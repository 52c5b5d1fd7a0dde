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

// Package telemetry wraps driver/GA steps in OpenTelemetry spans. Wiring
// a collector is optional: with no endpoint configured, a caller can
// leave the global no-op provider in place and spans become free no-ops,
// so tests can assert on Driver behavior without a running collector.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/binpack-nsga2/packer/pkg/pack"

// Tracer wraps a trace.Tracer bound to this module's instrumentation
// name; Driver.Run is wrapped in a "ga.run" span and, when the request
// enables History, each GA generation step in a "ga.generation" span.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer backed by provider, or the global
// OpenTelemetry provider if provider is nil.
func NewTracer(provider trace.TracerProvider) *Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Tracer{tracer: provider.Tracer(instrumentationName)}
}

// StartRun opens the top-level "ga.run" span for one GA invocation.
func (t *Tracer) StartRun(ctx context.Context, populationSize, maxGenerations int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "ga.run", trace.WithAttributes(
		attribute.Int("ga.population_size", populationSize),
		attribute.Int("ga.max_generations", maxGenerations),
	))
}

// StartGeneration opens a "ga.generation" span for one generation step.
func (t *Tracer) StartGeneration(ctx context.Context, generation int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "ga.generation", trace.WithAttributes(
		attribute.Int("ga.generation", generation),
	))
}

// AnnotateGeneration records front-zero size and the current best
// objective values on span, the way a caller would after a generation
// completes.
func AnnotateGeneration(span trace.Span, frontZeroSize int, bestVolume, bestWeight, bestCenterOfMass float64) {
	span.SetAttributes(
		attribute.Int("ga.front_zero_size", frontZeroSize),
		attribute.Float64("ga.best_volume", bestVolume),
		attribute.Float64("ga.best_weight", bestWeight),
		attribute.Float64("ga.best_center_of_mass", bestCenterOfMass),
	)
}

// NewOTLPGRPCProvider builds a TracerProvider exporting to an OTLP/gRPC
// collector at endpoint. Callers are responsible for calling Shutdown on
// the returned provider during process teardown.
func NewOTLPGRPCProvider(ctx context.Context, endpoint, serviceName string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, err
	}
	res := resource.NewWithAttributes(
		"https://opentelemetry.io/schemas/1.26.0",
		attribute.String("service.name", serviceName),
	)
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}
