// Package site is a minimal MkDocs-style page pipeline.
//
// It discovers the files under a docs directory, lets a [Plugin] mark files
// as excluded, renders each documentation page's markdown through
// text/template and writes the result, plus the static files, into the site
// directory. Excluded files are not written.
package site
