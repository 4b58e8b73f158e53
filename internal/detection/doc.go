// Package detection extracts geometric primitives from binary masks.
//
// It provides the vector-facing half of the tracing pipeline: given a mask
// produced by the imaging and morph packages, it finds shape outlines and line
// segments as integer point sequences that the vector package can serialize.
//
// # Contours
//
// FindContours traces the outer border of every outermost foreground component
// (8-connected) using Suzuki-Abe border following. Shapes nested inside the
// holes of other shapes are not reported, and holes themselves are never
// traced. With ApproxSimple, straight runs along the eight chain directions are
// compressed to their end points, so a filled axis-aligned rectangle yields
// exactly its four corners.
//
// Contours can then be measured (Area, Perimeter, BoundingRect), filtered by
// a minimum area or perimeter (FilterContours), and simplified to polygons
// (ApproxPolygon, IsConvex).
//
// # Line Segments
//
// HoughLinesP implements the progressive probabilistic Hough transform. Edge
// points are visited in a seeded pseudo-random order, so the same mask and
// parameters always produce the same segments.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes are inclusive: a single pixel has width and height 1
//
// # Limitations
//
// These algorithms work best on clean, high-contrast masks. Noisy input
// produces many tiny contours and short segments; filter them by area or
// perimeter, or run morphological cleanup first.
package detection
