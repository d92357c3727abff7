// Package cache memoizes range diffs for the duration of one build.
//
// Entries are keyed by a SHA-256 hash of the range endpoints, the diff scope
// and the change-type filter. The memo lives in memory only: a new build
// starts with a new Memo, so a changed set is never reused across builds.
package cache
