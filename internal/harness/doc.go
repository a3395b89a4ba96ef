// Package harness runs deck scenarios against the engine.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	setup:                      # loaded verbatim, not recorded
//	  - {id: a, number: 1, data: A, active: true}
//	deck: decks/small.cue       # alternative to setup, compiled with the #Deck schema
//	steps:
//	  - op: slides.insert
//	    args: {location: 1, slide: {number: 1, data: X}}
//	  - op: slides.move
//	    args: {request: 9}
//	    expect_error: SLIDE_NOT_FOUND
//	assertions:
//	  - type: active
//	    id: a
//	  - type: order
//	    ids: [a, slide-1]
//
// Step ops are recorded operation names and args use the recorded argument
// layout, so any recording log can be turned into a scenario.
//
// # Assertion Types
//
//   - active: the active slide has the given id or number (number 0 = none)
//   - order: slide ids in ascending number order
//   - count: number of slides
//   - slide: fields of one slide, subset match
//   - recorded: how many recordings an operation produced
//   - recorded_order: every recorded operation, in seq order
//
// # Deterministic Testing
//
// Every run gets a fresh in-memory store, a testutil.DeterministicClock and
// slide ids "slide-1", "slide-2", ..., so results can be compared against
// golden snapshots with RunWithGolden.
package harness
