// SPDX-License-Identifier: MIT

// Package ipopt shells out to a native interior-point solver over a columnar
// stdin/stdout protocol. The problem serializes itself through the
// solver.ColumnarEncoder capability; this package owns the wire format
// (codec.go) and the process lifecycle, including the hard timeout kill.
package ipopt

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/voltkit/gridopt/solver"
)

// BackendID is the registry key.
const BackendID = "ipopt"

// DefaultExecutable is looked up on PATH when Backend.Executable is empty.
const DefaultExecutable = "gridopt-ipopt"

// Termination codes reported by the native solver in its "status" column.
const (
	statusSolved     = 0
	statusIterLimit  = 1
	statusInfeasible = 2
	statusNumerical  = 3
)

// Backend drives the external interior-point process.
type Backend struct {
	// Executable overrides the binary name; empty means DefaultExecutable.
	Executable string
}

// New returns a backend using the default executable.
func New() *Backend { return &Backend{} }

// ID returns "ipopt".
func (*Backend) ID() string { return BackendID }

// Supports lists the smooth classes.
func (*Backend) Supports() []solver.ProblemClass {
	return []solver.ProblemClass{solver.NonlinearProgram, solver.ConicProgram}
}

// Available reports whether the native executable is on PATH. Probed at
// selection time so registration never fails on hosts without the binary.
func (b *Backend) Available() bool {
	_, err := exec.LookPath(b.executable())
	return err == nil
}

// Solve encodes the problem to the child's stdin, waits for it under
// cfg.Timeout and decodes the solution columns from its stdout. On timeout
// the child's process group is killed and a TimeoutError surfaces; the
// dispatcher treats that as fatal rather than retrying.
func (b *Backend) Solve(p solver.Problem, cfg solver.SolverConfig, ws solver.WarmStart) (*solver.OpfSolution, error) {
	ce, ok := p.(solver.ColumnarEncoder)
	if !ok {
		return nil, &solver.NotImplementedError{
			Reason: "ipopt backend requires a columnar-encodable problem",
		}
	}
	mapper, ok := p.(solver.SolutionMapper)
	if !ok {
		return nil, &solver.NotImplementedError{
			Reason: "ipopt backend requires a solution-mapping problem",
		}
	}

	var in bytes.Buffer
	enc := NewEncoder(&in)
	ce.EncodeColumns(enc)
	enc.FloatCol("tol", []float64{cfg.Tolerance})
	enc.IntCol("maxiter", []int64{int64(cfg.MaxIterations)})
	if ws != nil {
		if wsa, ok := p.(solver.WarmStartable); ok {
			if cp, ok := p.(solver.ContinuousProblem); ok {
				x := cp.InitialPoint()
				wsa.ApplyWarmStart(ws, x)
				enc.FloatCol("warm", x)
			}
		}
	}
	if err := enc.Err(); err != nil {
		return nil, &solver.NumericalError{Reason: "ipopt: encode: " + err.Error()}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	var out, errOut bytes.Buffer
	cmd := exec.CommandContext(ctx, b.executable())
	cmd.Stdin = &in
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	// The solver may fork helpers that inherit the output pipes. Run it in
	// its own process group, kill the whole group on deadline, and let Wait
	// abandon the pipes after a grace period, so no surviving descendant can
	// hold Run open past the timeout.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error { return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL) }
	cmd.WaitDelay = time.Second

	start := time.Now()
	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, &solver.TimeoutError{Seconds: cfg.Timeout.Seconds()}
	}
	if runErr != nil {
		return nil, &solver.NumericalError{
			Reason: "ipopt: solver process failed: " + firstLine(errOut.String(), runErr.Error()),
		}
	}
	if out.Len() == 0 {
		return nil, &solver.NumericalError{Reason: "ipopt: solver produced no output"}
	}

	floatCols, intCols, err := NewDecoder(&out).ReadAll()
	if err != nil {
		return nil, &solver.NumericalError{Reason: "ipopt: " + err.Error()}
	}

	status, err := scalarInt(intCols, "status")
	if err != nil {
		return nil, &solver.NumericalError{Reason: "ipopt: " + err.Error()}
	}
	iterations, _ := scalarInt(intCols, "iterations")
	var residual float64
	if col := floatCols["residual"]; len(col) == 1 {
		residual = col[0]
	}

	switch status {
	case statusSolved:
		// fall through to the solution mapping
	case statusIterLimit:
		return nil, &solver.ConvergenceError{Iterations: int(iterations), Residual: residual}
	case statusInfeasible:
		return nil, &solver.InfeasibleError{Reason: "ipopt: restoration converged to an infeasible point"}
	default:
		return nil, &solver.NumericalError{Reason: "ipopt: solver reported numerical failure"}
	}

	x, ok := floatCols["x"]
	if !ok || len(x) == 0 {
		return nil, &solver.NumericalError{Reason: "ipopt: solution column missing"}
	}
	lambda := floatCols["lambda"] // optional

	sol := mapper.Solution(x, lambda)
	sol.Converged = true
	sol.Iterations = int(iterations)
	sol.SolveTime = time.Since(start)

	return sol, nil
}

func (b *Backend) executable() string {
	if b.Executable != "" {
		return b.Executable
	}

	return DefaultExecutable
}

func scalarInt(cols map[string][]int64, name string) (int64, error) {
	col, ok := cols[name]
	if !ok || len(col) != 1 {
		return 0, errors.New("column " + name + " missing or not scalar")
	}

	return col[0], nil
}

// firstLine trims stderr to a single line for the error message; fallback is
// used when the child wrote nothing.
func firstLine(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}

	return s
}
