// Package synth synthesizes a document-transformation program that turns
// documents valid under the old schema version into documents valid under
// the new one.
//
// The Synthesizer is a work-queue state machine. It is seeded with every
// node classified MustRegenerate, pops one TemplateKey at a time, decides
// the subroutine shape (applied by match pattern, or named), and generates
// its body by recursing into attributes and content with a value-typed
// Context. Other subroutines a body needs (force-callable generators,
// content groups, unions, represented content) are requested through the
// Registry and queued; each key is emitted at most once. When the queue
// drains the copy-through, unchanged and catch-all boundary templates close
// the program.
//
// Synthesis is single-threaded and performs no I/O. The result is an
// ir.Program; rendering is done by package render.
package synth
