// Package loader reads and writes pipeline layouts as YAML documents.
//
// A document declares filter types, pipeline types and the name of the
// main pipeline:
//
//	main: sharpen
//	filters:
//	  blur:
//	    format: {width: 640, height: 480, pixel: RGBA8}
//	    inputs: [in]
//	    outputs: [out]
//	pipelines:
//	  sharpen:
//	    inputs: [in]
//	    outputs: [out]
//	    elements:
//	      - {name: b, type: blur}
//	    connections:
//	      - {from: "this:in", to: "b:in"}
//	      - {from: "b:out", to: "this:out"}
//
// Endpoints use the "element:port" form of the layout package, "this"
// naming the enclosing pipeline. The shader of a filter defaults to its
// type name.
package loader
