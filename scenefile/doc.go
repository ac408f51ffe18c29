// Package scenefile builds udraw scenes from YAML descriptions.
//
// A file names the scene, its background and any fonts, then lists entities.
// Each entity may carry a transform (with an optional rect layout), an
// ordered list of components and nested children:
//
//	name: badge
//	background: "#1e1e2e"
//	fonts:
//	  body: {builtin: goregular, size: 14}
//	entities:
//	  - name: panel
//	    transform:
//	      position: [0, 0]
//	      rect: {size: [120, 40]}
//	    components:
//	      - {kind: round-rectangle, color: "#313244", radius: [6, 6]}
//	    children:
//	      - name: label
//	        transform: {rect: {size: [100, 20]}}
//	        components:
//	          - {kind: text, text: "hello", font: body}
//
// Decoding is strict: unknown keys are errors. Colors are hex strings
// ("#rgb", "#rrggbb" or "#rrggbbaa"). Image and font paths are resolved
// relative to the file.
package scenefile
