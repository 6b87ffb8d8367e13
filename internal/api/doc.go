// Package api defines transport-friendly DTOs and the command workflows that
// back the CLI. It translates internal reconciliation and sweep types into
// payloads consumers can render or parse without coupling to internal types.
//
// DTOs use camelCase JSON tags. Categories are exposed as lowercase strings
// and timestamps use RFC3339.
package api
