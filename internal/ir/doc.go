// Package ir defines the typed intermediate representation of a synthesized
// transformation program.
//
// The synthesizer builds a Program of Templates whose bodies are Blocks of
// operations (element construction, calls, template application, copies,
// counted loops and branches). Rendering to concrete markup is a separate
// pass, see package render.
package ir
