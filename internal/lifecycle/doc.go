// Package lifecycle executes operations against the orchestrator from behind
// the risk gate.
//
// Every operation follows the same path: assess, gate, validate, execute.
// The gate is the load-bearing piece: an unconfirmed medium or high risk
// operation produces a preview of the intended change and nothing else. The
// preview path is wired so it physically cannot mutate: it only ever talks
// to the read-only Catalog, never to the Transport.
//
// Modification is delete-then-recreate with the identity preserved, which is
// the one sequence here that can strand state: if the delete lands and the
// recreate fails, the job is gone. That outcome is reported as a dedicated
// error type instead of being retried, because blind resubmission after a
// failed recreate is how one broken definition becomes two.
package lifecycle
