// Package morph implements binary morphology on imaging.Raster masks.
//
// Structuring elements are explicit offset sets rather than kernel images, so
// the shape of a neighbourhood is visible at the call site:
//
//	morph.Cross()    // centre + 4 edge-adjacent neighbours
//	morph.Square(7)  // 7x7 block centred on the pixel
//
// # Border Handling
//
// Neighbours that fall outside the image are ignored by both Erode and Dilate.
// This matches the OpenCV defaults, which means erosion never eats into a shape
// from the image frame. A mask that is entirely foreground is therefore a fixed
// point of erosion, and the thinning loops carry a hard iteration ceiling.
//
// # Thinning
//
// Skeletonize is the erode/open/subtract/or morphological skeleton. ZhangSuen is
// the classic two-subiteration thinning algorithm; it produces 8-connected
// centrelines and is offered as an alternative thinning strategy.
package morph
