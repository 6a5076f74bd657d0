// Package preflight provides readiness checks for the filesystem paths and
// the external lookup program lplmaker depends on.
//
// The CLI "lplmaker check" command runs RunAll and renders the results as a
// table. Checks for optional features, such as the title lookup executable,
// run only when some playlist enables them.
package preflight
