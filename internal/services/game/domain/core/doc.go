// Package core holds the vocabulary shared by every game-state slice.
//
// Slices own their state shapes; the values here cross slice boundaries
// (a research cost is checked against resources, a deployment carries the
// effects of the research it came from) so they live below all of them.
package core
