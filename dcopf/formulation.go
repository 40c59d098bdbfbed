// SPDX-License-Identifier: MIT

package dcopf

import (
	"github.com/voltkit/gridopt/network"
	"github.com/voltkit/gridopt/solver"
)

// FormulationID is the registry key of the DC relaxation.
const FormulationID = "dc-opf"

// Formulation builds DC-OPF problems. Stateless.
type Formulation struct{}

// ID returns "dc-opf".
func (Formulation) ID() string { return FormulationID }

// Class reports LinearProgram.
func (Formulation) Class() solver.ProblemClass { return solver.LinearProgram }

// AcceptsWarmStart accepts only Flat: a one-shot simplex solve gains
// nothing from a starting point.
func (Formulation) AcceptsWarmStart(k solver.WarmStartKind) bool {
	return k == solver.Flat
}

// BuildProblem constructs the typed problem from the network snapshot.
func (Formulation) BuildProblem(net *network.Network) (solver.Problem, error) {
	return Build(net)
}
