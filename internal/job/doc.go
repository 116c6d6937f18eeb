// Package job composes staged files into conversion job descriptors.
//
// A job is described by a Spec, a closed set of variants (SVG, STL, ThreeMF,
// Backed3MF, Stacked3MF) that each carry only the metadata their conversion
// needs. The Builder turns a Spec and the current staging list into the
// Descriptor posted to the service, normalizes the output filename, and
// resets itself once a submission succeeds.
package job
