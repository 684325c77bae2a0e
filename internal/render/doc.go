// Package render serializes an ir.Program as an XSLT stylesheet.
//
// The document skeleton (declaration, imports, output settings) comes from
// a text/template; template bodies are written by an indenting writer that
// maps each IR operation to its XSLT instruction.
package render
