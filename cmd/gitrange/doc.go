// Gitrange builds MkDocs-style documentation from the pages that changed in
// a git range.
//
// It reads the git-range plugin entry from mkdocs.yml, diffs the configured
// range restricted to the docs directory, and either lists the changed
// pages, reports which pages a filtered build would keep, or renders the
// site with the git_range template function available to every page.
//
// Usage:
//
//	gitrange list                       # pages changed from the root commit to HEAD
//	gitrange list v1.0 v2.0             # pages changed between two references
//	gitrange filter --filter=true       # report kept and excluded pages
//	gitrange build --include index.md   # render the site into site_dir
//	gitrange render changes.md          # render one page to stdout
//	gitrange config set from v1.0       # update the plugin entry in mkdocs.yml
package main
