// Package macro provides the git_range template function.
//
// A [Lister] is a value object built once per build from exactly what it
// needs: the repository, the path mapper, the build-wide range, the diff
// scope and change types, a per-build memo and optionally the build's file
// set. Templates call it with zero, one or two references:
//
//	{{ range git_range }}...{{ end }}          build-wide range
//	{{ range git_range "v1.0" }}...{{ end }}   from v1.0 to the build's end ref
//	{{ range git_range "v1.0" "v2.0" }}...{{ end }}
//
// Results are DocPaths in lexicographic order.
package macro
