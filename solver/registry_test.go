package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltkit/gridopt/solver"
)

func backend(id string, available bool, classes ...solver.ProblemClass) *fakeBackend {
	return &fakeBackend{id: id, classes: classes, available: available}
}

func TestRegistry_LookupAndReplace(t *testing.T) {
	reg := solver.NewRegistry()
	require.Nil(t, reg.Formulation("ac-opf"))
	require.Nil(t, reg.Backend("simplex"))

	f := &fakeFormulation{id: "ac-opf", class: solver.NonlinearProgram}
	reg.RegisterFormulation(f)
	require.Same(t, f, reg.Formulation("ac-opf"))

	// Re-registration under the same ID replaces.
	f2 := &fakeFormulation{id: "ac-opf", class: solver.NonlinearProgram}
	reg.RegisterFormulation(f2)
	require.Same(t, f2, reg.Formulation("ac-opf"))
}

func TestSelectBackend_EmptyRegistry(t *testing.T) {
	require.Nil(t, solver.NewRegistry().SelectBackend(solver.NonlinearProgram))
}

func TestSelectBackend_PreferenceOrder(t *testing.T) {
	reg := solver.NewRegistry()
	reg.RegisterBackend(backend("penalty", true, solver.NonlinearProgram, solver.ConicProgram))
	reg.RegisterBackend(backend("ipopt", true, solver.NonlinearProgram, solver.ConicProgram))

	// "ipopt" precedes "penalty" for both smooth classes.
	require.Equal(t, "ipopt", reg.SelectBackend(solver.NonlinearProgram).ID())
	require.Equal(t, "ipopt", reg.SelectBackend(solver.ConicProgram).ID())
}

func TestSelectBackend_SkipsUnavailable(t *testing.T) {
	reg := solver.NewRegistry()
	reg.RegisterBackend(backend("ipopt", false, solver.NonlinearProgram))
	reg.RegisterBackend(backend("penalty", true, solver.NonlinearProgram))

	require.Equal(t, "penalty", reg.SelectBackend(solver.NonlinearProgram).ID())
}

func TestSelectBackend_SkipsWrongClass(t *testing.T) {
	reg := solver.NewRegistry()
	reg.RegisterBackend(backend("simplex", true, solver.LinearProgram))

	require.Nil(t, reg.SelectBackend(solver.NonlinearProgram))
	require.Equal(t, "simplex", reg.SelectBackend(solver.LinearProgram).ID())
}

func TestSelectBackend_UnlistedBackendsInIDOrder(t *testing.T) {
	// Backends outside the preference table are eligible after it, in
	// stable ID order.
	reg := solver.NewRegistry()
	reg.RegisterBackend(backend("zeta", true, solver.LinearProgram))
	reg.RegisterBackend(backend("alpha", true, solver.LinearProgram))

	require.Equal(t, "alpha", reg.SelectBackend(solver.LinearProgram).ID())

	// A preferred backend beats both regardless of registration order.
	reg.RegisterBackend(backend("simplex", true, solver.LinearProgram))
	require.Equal(t, "simplex", reg.SelectBackend(solver.LinearProgram).ID())
}

func TestSelectBackend_MixedIntegerHasNoServers(t *testing.T) {
	reg := solver.NewRegistry()
	reg.RegisterBackend(backend("ipopt", true, solver.NonlinearProgram))
	reg.RegisterBackend(backend("simplex", true, solver.LinearProgram))

	require.Nil(t, reg.SelectBackend(solver.MixedInteger))
}

func TestDefaultSolverConfig(t *testing.T) {
	cfg := solver.DefaultSolverConfig()
	require.Equal(t, solver.DefaultMaxIterations, cfg.MaxIterations)
	require.Equal(t, solver.DefaultTolerance, cfg.Tolerance)
	require.Equal(t, solver.DefaultTimeout, cfg.Timeout)
}
