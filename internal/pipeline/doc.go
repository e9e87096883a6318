// Package pipeline orchestrates reconciliation runs: concurrent source
// fetches, identity resolution and merge, and execution of planned backend
// operations. Each CLI command maps to one pipeline call chain; nothing in
// this package persists between runs.
package pipeline
