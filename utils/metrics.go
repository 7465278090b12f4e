package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts finished pipeline runs by outcome ("completed", "failed").
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wanderplan",
		Name:      "pipeline_runs_total",
		Help:      "Finished travel plan pipeline runs by outcome.",
	}, []string{"outcome"})

	// StageDuration observes how long each stage spent in the loading state.
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wanderplan",
		Name:      "stage_duration_seconds",
		Help:      "Time spent per pipeline stage.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"stage", "state"})

	// Degradations counts non-fatal fallbacks by kind.
	Degradations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wanderplan",
		Name:      "degradations_total",
		Help:      "Non-fatal degradations absorbed by the pipeline.",
	}, []string{"kind"})
)
