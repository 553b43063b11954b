// Package aggregate resolves multi-repository aggregation configuration into
// validated RepoSpec records.
//
// Resolver normalizes remotes, merges, target branch, fetch scope, and
// post-merge commands for every configured directory, enforces the cross-field
// invariants between them, and optionally pre-flights merge references through
// an injected RemoteQuerier. Non-fatal findings are reported to a
// DiagnosticSink; the first structurally invalid directory aborts resolution
// with a ConfigurationError.
package aggregate
