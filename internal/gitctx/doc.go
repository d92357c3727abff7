// Package gitctx resolves which files changed between two git references.
//
// A [Repo] wraps one working copy and a [Runner] that shells out to git. It
// exposes the range diff used for page filtering ([Repo.Diff] and its
// fail-open form [Repo.ChangedFiles]), the root commit that serves as the
// default range start, and small metadata helpers for reports.
//
// Which statuses count as "changed" is an explicit [ChangeTypes] set rendered
// into git's --diff-filter. [DefaultChangeTypes] matches "--diff-filter=dux".
package gitctx
