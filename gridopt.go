// SPDX-License-Identifier: MIT

package gridopt

import (
	"github.com/voltkit/gridopt/acopf"
	"github.com/voltkit/gridopt/dcopf"
	"github.com/voltkit/gridopt/network"
	"github.com/voltkit/gridopt/socp"
	"github.com/voltkit/gridopt/solver"
	"github.com/voltkit/gridopt/solver/ipopt"
	"github.com/voltkit/gridopt/solver/penalty"
	"github.com/voltkit/gridopt/solver/simplex"
)

// DefaultFallbacks is the warm-start retry order used by Solve: the cheap
// linear relaxation first, the tighter conic one second.
var DefaultFallbacks = []solver.WarmStartKind{solver.Dc, solver.Socp}

// DefaultRegistry returns a registry with every in-tree formulation and
// backend registered. The ipopt backend registers unconditionally; whether
// its executable exists is probed at selection time.
func DefaultRegistry() *solver.Registry {
	reg := solver.NewRegistry()

	reg.RegisterFormulation(acopf.Formulation{})
	reg.RegisterFormulation(dcopf.Formulation{})
	reg.RegisterFormulation(socp.Formulation{})

	reg.RegisterBackend(ipopt.New())
	reg.RegisterBackend(penalty.New())
	reg.RegisterBackend(simplex.New())

	return reg
}

// Solve runs the full AC-OPF on net with default configuration and the
// default warm-start fallbacks.
func Solve(net *network.Network, opts ...solver.Option) (*solver.OpfSolution, error) {
	return SolveWith(net, acopf.FormulationID, solver.DefaultSolverConfig(), DefaultFallbacks, opts...)
}

// SolveDC runs the linear DC relaxation on net: fast, approximate, no
// reactive power. Useful on its own for screening studies and LMP estimates.
func SolveDC(net *network.Network, opts ...solver.Option) (*solver.OpfSolution, error) {
	return SolveWith(net, dcopf.FormulationID, solver.DefaultSolverConfig(), nil, opts...)
}

// SolveWith dispatches the named formulation against the default registry
// with explicit configuration and fallback order.
func SolveWith(net *network.Network, formulationID string, cfg solver.SolverConfig, fallbacks []solver.WarmStartKind, opts ...solver.Option) (*solver.OpfSolution, error) {
	d := solver.NewDispatcher(DefaultRegistry(), opts...)

	return d.Solve(net, formulationID, cfg, fallbacks)
}
