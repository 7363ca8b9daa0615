// Package harness runs YAML session scenarios against a Favourites Store
// and a Searcher on simulated time, and checks the resulting trace.
//
// # Scenario Format
//
//	name: add_then_expire
//	description: "Adding a favourite raises a notification that expires"
//	catalog: ../catalog/properties.json   # optional, relative to the file
//	session_id: session-1                 # optional, fixed for golden files
//	steps:
//	  - action: add
//	    id: prop-001
//	    expect:
//	      result: true
//	      count: 1
//	      notification: { message: "Added to favourites!", kind: success }
//	  - action: advance
//	    ms: 3000
//	    expect:
//	      no_notification: true
//	  - action: search
//	    criteria: { type: flat, maxPrice: 400000 }
//	    expect:
//	      ids: [prop-002, prop-005]
//	assertions:
//	  - type: trace_count
//	    action: add
//	    count: 1
//	  - type: final_state
//	    expect:
//	      favourites: [prop-001]
//
// # Step Actions
//
//   - add, remove, toggle: take id
//   - clear: takes confirmed
//   - advance: moves simulated time forward by ms
//   - search, validate: take criteria
//   - check: does nothing, only evaluates expect
//
// # Trace
//
// Every step records a "step" event. Store changes observed through
// Subscribe record "notify" and "expire" events. Events carry a logical
// seq from testutil.DeterministicClock and the simulated time in at_ms,
// so identical scenarios produce byte-identical snapshots.
//
// # Assertion Types
//
// The trace assertions name events by step action, or by "notify" and
// "expire" for store events.
//
//   - trace_contains: an event with the given name and args subset
//   - trace_order: first occurrences appear in the given order
//   - trace_count: an event appears exactly count times
//   - final_state: expect clause evaluated after the last step
package harness
