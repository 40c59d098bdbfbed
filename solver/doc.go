// Package solver defines the optimization-engine contracts and orchestration:
// capability-tagged Formulation and Backend interfaces, the problem-class
// taxonomy used for backend selection, the registry of pluggable
// implementations, and the dispatcher that drives a solve end to end with
// warm-start fallback on convergence failure.
//
// Dispatch state machine (Dispatcher.Solve):
//
//	LookupFormulation → BuildProblem → SelectBackend → AttemptSolve
//	    → Success
//	    → EvaluateFailure → AttemptFallback(k) per caller-supplied kind
//	        → Success | ReturnOriginalError
//
// Rules:
//
//  1. Unknown formulation ID, or no available backend for the built
//     problem's class, is terminal (NotImplementedError) — no retry.
//  2. The first attempt always runs without a warm start (flat-start policy).
//  3. Only convergence-class failures retry: ConvergenceError,
//     InfeasibleError, NumericalError. Everything else is terminal, including
//     TimeoutError — more time, not a different starting point, is the remedy.
//  4. Each fallback kind other than Flat maps to a cheaper registered
//     formulation (Dc→"dc-opf", Socp→"socp"); its solution is translated to a
//     warm-start map and the original backend is retried with it.
//  5. The first success wins; if every fallback fails, the original
//     first-attempt error is returned. Fallback failures are swallowed.
//
// The Registry is read-mostly and safe for concurrent dispatchers. A single
// dispatch call is strictly sequential: no concurrent backend invocations.
//
// Error taxonomy (see errors.go): DataValidationError and NotImplementedError
// are fatal; ConvergenceError, InfeasibleError and NumericalError are
// retry-worthy; TimeoutError is fatal. Retryable reports the classification.
package solver
