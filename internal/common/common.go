// Package common holds small helpers shared by the generator packages.
package common

// UnknownStr is the String() form of out-of-range enum values.
const UnknownStr = "unknown"
