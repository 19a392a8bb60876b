// Package jsonpick is the convenience surface of the engine.  The real
// work happens in the subpackages:
//
//   - token:   pull tokenizer over an in-memory document
//   - escape:  JSON string escape encoding and decoding
//   - dom:     arena-allocated document trees and re-serialization
//   - extract: schema-driven streaming extraction without tree building
//   - bind:    reflection binding of document trees onto structs
//
// Two consumption paths share the tokenizer: build a full tree with dom
// (then optionally bind it onto a struct), or wire an extract getter schema
// once and pull just the fields you need out of many documents without
// building anything.
//
// The helpers in this package trade the subpackages' buffer-reuse control
// for one-line calls; hot paths should hold on to a dom.Parser or an
// extract.Main instead.
package jsonpick
