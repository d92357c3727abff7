// Package config loads and merges gitrange configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (GITRANGE_FROM, GITRANGE_TO, GITRANGE_FILTER, etc.),
//     including those loaded from a .env file next to the config file
//  3. The git-range entry of the site's mkdocs.yml
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Init] to write a starter
// mkdocs.yml, and [SetField] with [Save] to update a single plugin option.
package config
