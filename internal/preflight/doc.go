// Package preflight provides readiness checks for the filesystem paths and
// the model database that modeltidy depends on.
//
// These checks run in two contexts:
//   - Mutating commands call RunAll before touching anything, so a doomed
//     batch fails before the first file move instead of halfway through.
//   - The CLI "modeltidy status" command displays the same results as a
//     health report.
package preflight
