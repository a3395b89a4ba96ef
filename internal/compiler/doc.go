// Package compiler turns deck documents into slides.
//
// A deck document is CUE, JSON or YAML shaped like
//
//	slides: [
//		{id: "intro", number: 1, data: "...", active: true},
//		{id: "agenda", number: 2},
//	]
//
// Every document is unified with the #Deck schema, so wrong types, unknown
// fields, floats and non-positive numbers are rejected with a source
// position where CUE has one. ValidateDeck then checks the cross-slide
// rules a schema cannot express (unique ids and numbers, single active).
package compiler
