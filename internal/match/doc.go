// Package match finds declared identifiers that resemble a mistyped one.
//
// Identifiers are compared after folding case and dropping separators, so
// "order-item", "order_item" and "OrderItem" are the same name. Similarity is
// the edit distance scaled by the longer length.
package match
