// SPDX-License-Identifier: MIT

// Package solver: end-to-end dispatch. See doc.go for the state machine and
// its transition rules; this file implements them verbatim.

package solver

import (
	"github.com/voltkit/gridopt/network"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger injects a progress logger (default: no-op).
func WithLogger(l Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// Dispatcher orchestrates build → select → solve → fallback-retry against a
// shared read-only Registry. One Solve call is strictly sequential; a single
// Dispatcher may serve concurrent callers.
type Dispatcher struct {
	reg *Registry
	log Logger
}

// NewDispatcher returns a dispatcher over reg.
func NewDispatcher(reg *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{reg: reg, log: noopLogger{}}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Solve runs the dispatch state machine for the formulation registered under
// formulationID. fallbacks is the ordered list of warm-start kinds to try
// after a retry-worthy failure; Flat entries are skipped (the first attempt
// is already a flat start). Callers receive either a converged solution or a
// single typed error — never a partial result.
func (d *Dispatcher) Solve(net *network.Network, formulationID string, cfg SolverConfig, fallbacks []WarmStartKind) (*OpfSolution, error) {
	// LookupFormulation.
	f := d.reg.Formulation(formulationID)
	if f == nil {
		return nil, &NotImplementedError{Reason: "Unknown formulation \"" + formulationID + "\""}
	}

	// BuildProblem.
	prob, err := f.BuildProblem(net)
	if err != nil {
		return nil, err
	}

	// SelectBackend.
	be := d.reg.SelectBackend(prob.Class())
	if be == nil {
		return nil, &NotImplementedError{
			Reason: "No available backend for problem class " + prob.Class().String(),
		}
	}

	// AttemptSolve: flat-start policy — the first attempt never warm-starts.
	d.log.Print("dispatch: solving ", formulationID, " via ", be.ID())
	sol, firstErr := be.Solve(prob, cfg, nil)
	if firstErr == nil {
		return sol, nil
	}

	// EvaluateFailure: only the first attempt's error decides retry-worthiness.
	if !Retryable(firstErr) {
		return nil, firstErr
	}

	// AttemptFallback(k) loop.
	for _, kind := range fallbacks {
		if kind == Flat {
			continue
		}
		if !f.AcceptsWarmStart(kind) {
			continue
		}

		ws := d.warmStart(net, kind, cfg)
		if ws == nil {
			continue
		}

		d.log.Print("dispatch: retrying ", formulationID, " with ", kind.String(), " warm start")
		if sol, err := be.Solve(prob, cfg, ws); err == nil {
			return sol, nil
		}
	}

	// ReturnOriginalError: fallback failures are not individually surfaced.
	return nil, firstErr
}

// warmStart solves the cheaper relaxation for kind through the same registry
// and translates its solution into the exchange map. Any failure along the
// way yields nil (swallowed by the caller).
func (d *Dispatcher) warmStart(net *network.Network, kind WarmStartKind, cfg SolverConfig) WarmStart {
	wf := d.reg.Formulation(kind.FormulationID())
	if wf == nil {
		return nil
	}

	wp, err := wf.BuildProblem(net)
	if err != nil {
		return nil
	}

	wbe := d.reg.SelectBackend(wp.Class())
	if wbe == nil {
		return nil
	}

	wsol, err := wbe.Solve(wp, cfg, nil)
	if err != nil {
		return nil
	}

	return WarmStartFromSolution(wsol)
}
