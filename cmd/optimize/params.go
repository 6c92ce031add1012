// Package main provides CMA-ES tuning of the heuristic controller.
package main

import (
	"github.com/pthm-cable/bubbletrouble/agent"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Order must match ApplyToParams.
func NewParamVector() *ParamVector {
	d := agent.DefaultHeuristicParams()
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "too_close", Min: 10, Max: 150, Default: d.TooClose},
			{Name: "too_low", Min: 0, Max: 240, Default: d.TooLow},
			{Name: "align", Min: 1, Max: 30, Default: d.Align},
			{Name: "lead", Min: 0, Max: 30, Default: d.Lead},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToParams converts clamped values to heuristic parameters.
func (pv *ParamVector) ApplyToParams(values []float64) agent.HeuristicParams {
	c := pv.Clamp(values)
	return agent.HeuristicParams{
		TooClose: c[0],
		TooLow:   c[1],
		Align:    c[2],
		Lead:     c[3],
	}
}

// ExtractFromParams is the inverse of ApplyToParams.
func (pv *ParamVector) ExtractFromParams(p agent.HeuristicParams) []float64 {
	return []float64{p.TooClose, p.TooLow, p.Align, p.Lead}
}
