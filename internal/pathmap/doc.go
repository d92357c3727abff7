// Package pathmap converts between repository-relative paths (as printed by
// git) and docs-relative paths (as seen by the site's file collection).
//
// All comparisons in gitrange go through [Normalize]: separators become "/",
// "./" and redundant segments are cleaned away. A [Mapper] fixes one pair of
// roots at build start so later conversions are pure path arithmetic.
package pathmap
