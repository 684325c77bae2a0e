// Package schema loads the input document of a synthesis run: both versions
// of the content-model tree and the change classification between them.
//
// A document is YAML:
//
//	nodes:
//	  - id: order
//	    kind: element-class
//	    old: {label: order}
//	    new: {label: order}
//	  - id: item
//	    kind: element-class
//	    old: {parent: order, label: item, lower: 1, upper: 3}
//	    new: {parent: order, label: item, lower: 2, upper: "*"}
//	classification:
//	  - {node: order, category: must-regenerate}
//	  - {node: item, category: unchanged}
//
// A node without an old snapshot was added; one without a new snapshot was
// deleted. Children keep the order in which they are listed.
package schema
