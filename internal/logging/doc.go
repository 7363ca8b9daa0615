// Package logging wraps zap behind the small Logger interface every other
// package logs through.
//
// Fields are passed as maps and emitted in sorted key order so output is
// stable across runs.
package logging
