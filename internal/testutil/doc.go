// Package testutil holds deterministic stand-ins for time, ids and the
// sample catalog, shared by package tests and the scenario harness.
package testutil
