// Package plugin wires the range resolver, path mapper, inclusion filter and
// git_range template function into a site build.
//
// A [BuildContext] is created once per build by [New]. It fixes the range,
// the change-type policy and the path mapper up front, then serves the two
// pipeline hooks: [BuildContext.OnFiles] resolves the changed set once and
// filters the file collection, and [BuildContext.OnPageMarkdown] renders a
// page with git_range bound. Nothing is kept in package-level state.
package plugin
