// SPDX-License-Identifier: MIT

package solver

import (
	"sort"
	"sync"
)

// backendPreference fixes the per-class selection order: native, accurate
// solvers before pure-language fallbacks. Backends outside this list are
// still eligible, after the preferred ones, in stable ID order.
var backendPreference = map[ProblemClass][]string{
	LinearProgram:    {"simplex"},
	ConicProgram:     {"ipopt", "penalty"},
	NonlinearProgram: {"ipopt", "penalty"},
	MixedInteger:     {},
}

// Registry holds the registered formulations and backends, keyed by string
// ID. It is populated at process start and read by many concurrent dispatch
// calls; reads take an RLock.
type Registry struct {
	mu           sync.RWMutex
	formulations map[string]Formulation
	backends     map[string]Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		formulations: make(map[string]Formulation),
		backends:     make(map[string]Backend),
	}
}

// RegisterFormulation adds (or replaces) a formulation under its ID.
func (r *Registry) RegisterFormulation(f Formulation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formulations[f.ID()] = f
}

// RegisterBackend adds (or replaces) a backend under its ID.
func (r *Registry) RegisterBackend(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.ID()] = b
}

// Formulation returns the formulation registered under id, or nil.
func (r *Registry) Formulation(id string) Formulation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formulations[id]
}

// Backend returns the backend registered under id, or nil.
func (r *Registry) Backend(id string) Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.backends[id]
}

// SelectBackend answers "which backend should serve this problem class":
// first the fixed preference order for the class, then any remaining
// available backend supporting the class in stable ID order. Returns nil
// when no backend qualifies.
func (r *Registry) SelectBackend(class ProblemClass) Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tried := make(map[string]bool, len(r.backends))
	for _, id := range backendPreference[class] {
		tried[id] = true
		if b := r.backends[id]; b != nil && serves(b, class) {
			return b
		}
	}

	rest := make([]string, 0, len(r.backends))
	for id := range r.backends {
		if !tried[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		if b := r.backends[id]; serves(b, class) {
			return b
		}
	}

	return nil
}

func serves(b Backend, class ProblemClass) bool {
	if !b.Available() {
		return false
	}
	for _, c := range b.Supports() {
		if c == class {
			return true
		}
	}

	return false
}
