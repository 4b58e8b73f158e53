// Package vector serializes traced paths as SVG documents or JSON descriptors.
//
// A Descriptor holds absolute points, an inclusive bounding box and whether the
// path is closed. The two encodings use different coordinate frames:
//
//   - SVG: absolute image coordinates, one <path> element per descriptor.
//   - JSON: coordinates relative to the descriptor's bounding box origin.
//
// Path strings follow "M10,20 L11,21 Z". A one-point path is written as a
// zero-length line ("M5,5 L5,5").
package vector
