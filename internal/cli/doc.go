// Package cli wires together the Cobra command tree for the gitrange binary.
//
// It defines the root command and all subcommands (list, filter, build,
// render, config, version), binds flags, reads mkdocs.yml, drives a build
// through the plugin hooks, and returns deterministic exit codes.
package cli
