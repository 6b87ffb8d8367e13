// Package logging wraps log/slog with modeltidy's handler setup and
// standardized attribute helpers.
//
// Loggers are constructed from config (level, format, optional log file) and
// emit either a human-oriented console format or JSON. Components attach
// themselves with the Field constants so report, scan, and sweep output can
// be filtered uniformly.
package logging
