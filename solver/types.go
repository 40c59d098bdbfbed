// SPDX-License-Identifier: MIT

// Package solver: core contracts. This file declares the problem-class and
// warm-start taxonomies, the Problem/Formulation/Backend interfaces and the
// optional capability interfaces backends probe for with type assertions.

package solver

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/voltkit/gridopt/network"
)

// ProblemClass tags a problem for backend-capability matching.
type ProblemClass int

const (
	// LinearProgram — linear objective and constraints.
	LinearProgram ProblemClass = iota

	// ConicProgram — linear objective/constraints plus second-order cones.
	ConicProgram

	// NonlinearProgram — general smooth nonlinear program.
	NonlinearProgram

	// MixedInteger — program with integrality requirements.
	MixedInteger
)

// String returns the canonical lowercase name of the class.
func (c ProblemClass) String() string {
	switch c {
	case LinearProgram:
		return "linear"
	case ConicProgram:
		return "conic"
	case NonlinearProgram:
		return "nonlinear"
	case MixedInteger:
		return "mixed-integer"
	default:
		return "unknown"
	}
}

// WarmStartKind identifies which cheaper relaxation produced a starting
// point. Flat means "no warm start".
type WarmStartKind int

const (
	// Flat — the flat start; never solved as a fallback (it is the initial
	// attempt's policy already).
	Flat WarmStartKind = iota

	// Dc — warm start from the DC-OPF linear relaxation.
	Dc

	// Socp — warm start from the SOCP (Jabr) relaxation.
	Socp
)

// String returns the canonical lowercase name of the kind.
func (k WarmStartKind) String() string {
	switch k {
	case Flat:
		return "flat"
	case Dc:
		return "dc"
	case Socp:
		return "socp"
	default:
		return "unknown"
	}
}

// FormulationID returns the registry ID of the relaxation that produces
// warm starts of this kind, or "" for Flat.
func (k WarmStartKind) FormulationID() string {
	switch k {
	case Dc:
		return "dc-opf"
	case Socp:
		return "socp"
	default:
		return ""
	}
}

// WarmStart is the exchange format between formulations: a string-keyed
// numeric map with keys "Vm:<bus-id>", "Va:<bus-id>", "Pg:<gen-id>" and
// "Qg:<gen-id>".
type WarmStart map[string]float64

// Problem is the minimal contract every built problem satisfies. Backends
// probe for richer capabilities (ContinuousProblem, LinearProblem,
// HessianProvider, ...) via type assertions.
type Problem interface {
	// Class reports the problem class for backend selection.
	Class() ProblemClass
}

// Formulation maps a network snapshot to a typed problem.
type Formulation interface {
	// ID is the registry key (e.g. "ac-opf", "dc-opf", "socp").
	ID() string

	// Class reports the class of the problems this formulation builds.
	Class() ProblemClass

	// AcceptsWarmStart reports whether the formulation's problems can
	// consume warm starts of the given kind.
	AcceptsWarmStart(k WarmStartKind) bool

	// BuildProblem constructs a problem from the network snapshot.
	// Insufficient input yields a *DataValidationError.
	BuildProblem(net *network.Network) (Problem, error)
}

// Backend is a numerical solver able to serve one or more problem classes.
type Backend interface {
	// ID is the registry key (e.g. "ipopt", "simplex", "penalty").
	ID() string

	// Supports lists the problem classes the backend can solve.
	Supports() []ProblemClass

	// Available reports whether the backend is usable right now
	// (e.g. a native executable is present on this host).
	Available() bool

	// Solve runs the backend. ws may be nil (flat start). On failure the
	// returned error is one of the typed taxonomy in errors.go.
	Solve(p Problem, cfg SolverConfig, ws WarmStart) (*OpfSolution, error)
}

// ContinuousProblem is the capability shared by smooth problems
// (NonlinearProgram and ConicProgram classes).
type ContinuousProblem interface {
	Problem

	// NumVars is the length of the variable vector.
	NumVars() int

	// NumEqualities is the length of the equality-constraint vector.
	NumEqualities() int

	// InitialPoint returns a fresh flat-start vector.
	InitialPoint() []float64

	// Bounds returns fresh lower/upper variable-bound vectors.
	Bounds() (lo, hi []float64)

	// Objective evaluates f(x).
	Objective(x []float64) float64

	// Gradient writes ∇f(x) into grad (len NumVars).
	Gradient(x, grad []float64)

	// Equalities writes g(x) into out (len NumEqualities); feasible means
	// g(x) = 0.
	Equalities(x, out []float64)

	// Jacobian writes ∂g/∂x into jac (NumEqualities × NumVars).
	Jacobian(x []float64, jac *mat.Dense)
}

// ConeConstrained is the extra capability of conic problems: inequality
// constraints h(x) ≥ 0 (the relaxation cones).
type ConeConstrained interface {
	// NumInequalities is the length of the inequality vector.
	NumInequalities() int

	// Inequalities writes h(x) into out; feasible means h(x) ≥ 0.
	Inequalities(x, out []float64)

	// InequalityJacobian writes ∂h/∂x into jac
	// (NumInequalities × NumVars).
	InequalityJacobian(x []float64, jac *mat.Dense)
}

// HessianProvider exposes the exact Lagrangian Hessian for second-order
// backends. The sparsity pattern is fixed per problem and must be queried
// before any Values call; it is stable across solver iterations.
type HessianProvider interface {
	// HessianPattern returns the lower-triangular (row, col) pairs of the
	// nonzero structure.
	HessianPattern() (rows, cols []int)

	// HessianValues writes σ·∇²f(x) + Σ_i λ_i·∇²g_i(x) into vals, one entry
	// per pattern pair. len(lambda) == NumEqualities.
	HessianValues(x []float64, sigma float64, lambda, vals []float64)
}

// LinearProblem is the capability of LinearProgram-class problems, expressed
// in general form: minimize cᵀx subject to A·x = b and G·x ≤ h.
type LinearProblem interface {
	Problem

	// Cost returns the objective coefficient vector c.
	Cost() []float64

	// EqualityMatrix returns (A, b).
	EqualityMatrix() (*mat.Dense, []float64)

	// InequalityMatrix returns (G, h); may be (nil, nil) when unconstrained.
	InequalityMatrix() (*mat.Dense, []float64)
}

// WarmStartable problems can overwrite entries of a start vector from a
// warm-start map; unknown keys are ignored.
type WarmStartable interface {
	// ApplyWarmStart patches x in place from ws.
	ApplyWarmStart(ws WarmStart, x []float64)
}

// SolutionMapper problems translate a raw solution vector (and optional
// equality multipliers) into the named OpfSolution maps.
type SolutionMapper interface {
	// Solution builds the result; lambda may be nil when the backend does
	// not produce duals.
	Solution(x, lambda []float64) *OpfSolution
}

// ColumnWriter is the sink a problem encodes itself into when handed to a
// subprocess backend. Implementations live with the backend owning the wire
// format.
type ColumnWriter interface {
	// FloatCol appends a named float64 column.
	FloatCol(name string, vals []float64)

	// IntCol appends a named int64 column.
	IntCol(name string, vals []int64)
}

// ColumnarEncoder problems can serialize themselves to a columnar stream for
// subprocess solvers.
type ColumnarEncoder interface {
	// EncodeColumns writes every column the external solver needs to
	// reconstruct the problem.
	EncodeColumns(w ColumnWriter)
}

// OpfSolution is the immutable result of a successful solve.
type OpfSolution struct {
	// Converged reports whether the backend met its convergence criteria.
	Converged bool

	// Objective is the total generation cost in $/hr.
	Objective float64

	// Iterations is the backend's iteration count.
	Iterations int

	// SolveTime is the wall-clock duration of the backend solve.
	SolveTime time.Duration

	// BusVoltage maps bus ID → voltage magnitude (per-unit).
	BusVoltage map[string]float64

	// BusAngle maps bus ID → voltage angle (radians).
	BusAngle map[string]float64

	// BusLMP maps bus ID → locational marginal price ($/MWh).
	BusLMP map[string]float64

	// GenP maps generator ID → active output (MW).
	GenP map[string]float64

	// GenQ maps generator ID → reactive output (MVAr).
	GenQ map[string]float64

	// BranchFlow maps branch ID → active power entering at the From end (MW).
	BranchFlow map[string]float64
}

// WarmStartFromSolution translates a relaxation solution into the exchange
// map consumed by WarmStartable problems.
func WarmStartFromSolution(sol *OpfSolution) WarmStart {
	ws := make(WarmStart, 2*len(sol.BusVoltage)+2*len(sol.GenP))
	for id, vm := range sol.BusVoltage {
		ws["Vm:"+id] = vm
	}
	for id, va := range sol.BusAngle {
		ws["Va:"+id] = va
	}
	for id, p := range sol.GenP {
		ws["Pg:"+id] = p
	}
	for id, q := range sol.GenQ {
		ws["Qg:"+id] = q
	}

	return ws
}
