// Package plan computes the mutating operations each lifecycle action
// would perform, without executing anything. Every planner is a pure
// function of the reconciled (or episode) set and a policy; execution
// is the caller's concern and stays behind an explicit execute flag.
// Entities a planner cannot act on are collected as skipped items
// instead of failing the run.
package plan
