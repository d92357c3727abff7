// Package filter decides which documentation pages stay in a build.
//
// The decision is a pure function of its inputs: the pages, the changed
// DocPaths, the allow-list and the enabled switch. Nothing here resolves
// changes itself, so applying the same inputs twice yields the same result.
package filter
