package gitctx

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ChangeType is a git diff status letter.
type ChangeType byte

const (
	Added       ChangeType = 'A'
	Broken      ChangeType = 'B'
	Copied      ChangeType = 'C'
	Deleted     ChangeType = 'D'
	Modified    ChangeType = 'M'
	Renamed     ChangeType = 'R'
	TypeChanged ChangeType = 'T'
	Unmerged    ChangeType = 'U'
	Unknown     ChangeType = 'X'
)

var changeTypeNames = map[ChangeType]string{
	Added:       "added",
	Broken:      "broken",
	Copied:      "copied",
	Deleted:     "deleted",
	Modified:    "modified",
	Renamed:     "renamed",
	TypeChanged: "type-changed",
	Unmerged:    "unmerged",
	Unknown:     "unknown",
}

// AllChangeTypes lists every status git can report, in letter order.
var AllChangeTypes = ChangeTypes{Added, Broken, Copied, Deleted, Modified, Renamed, TypeChanged, Unmerged, Unknown}

// ErrNoChangeTypes is returned when a non-empty policy selects no status at
// all, e.g. "abcdmrtux" or ["A", "a"].
var ErrNoChangeTypes = errors.New("change types select nothing")

// DefaultChangeTypes is the policy selected by git's "--diff-filter=dux":
// lower-case letters exclude, so deleted, unmerged and unknown paths are
// dropped and every other status counts as a change.
var DefaultChangeTypes = mustParseDiffFilter("dux")

func (c ChangeType) String() string {
	if name, ok := changeTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ChangeType(%q)", byte(c))
}

// ParseChangeType accepts a status name ("modified", "type-changed") or a
// single status letter in either case. It names one status; use
// ParseChangeTypes for a policy, where a lower-case letter excludes.
func ParseChangeType(s string) (ChangeType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	if s == "typechanged" {
		s = "type-changed"
	}
	for c, name := range changeTypeNames {
		if name == s {
			return c, nil
		}
	}
	if len(s) == 1 {
		c := ChangeType(strings.ToUpper(s)[0])
		if _, ok := changeTypeNames[c]; ok {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown change type %q", s)
}

// ChangeTypes is a sorted, duplicate-free set of change types.
// A nil set applies no diff filter; a non-nil empty set selects nothing. The
// parsers never return an empty set for a non-empty policy; they return
// ErrNoChangeTypes instead.
type ChangeTypes []ChangeType

// NewChangeTypes returns the canonical set for the given types.
func NewChangeTypes(types ...ChangeType) ChangeTypes {
	seen := make(map[ChangeType]bool, len(types))
	var out ChangeTypes
	for _, c := range types {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseChangeTypes parses a list of entries. Each entry is a status name or
// a git diff-filter string such as "AMR" or "dux". A single letter is a
// one-letter filter, so "d" means everything except deleted, as it does in
// git.
func ParseChangeTypes(items []string) (ChangeTypes, error) {
	var include, exclude []ChangeType
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if len(item) > 1 {
			if c, err := ParseChangeType(item); err == nil {
				include = append(include, c)
				continue
			}
		}
		inc, exc, err := splitDiffFilter(item)
		if err != nil {
			return nil, err
		}
		include = append(include, inc...)
		exclude = append(exclude, exc...)
	}
	return combine(include, exclude)
}

// ParseDiffFilter parses a git --diff-filter value. Upper-case letters select
// a status; lower-case letters exclude it from the otherwise full set. An
// empty value yields a nil set.
func ParseDiffFilter(s string) (ChangeTypes, error) {
	include, exclude, err := splitDiffFilter(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return combine(include, exclude)
}

func combine(include, exclude []ChangeType) (ChangeTypes, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	if len(include) == 0 {
		include = AllChangeTypes
	}
	ct := NewChangeTypes(include...).Without(exclude...)
	if len(ct) == 0 {
		return nil, ErrNoChangeTypes
	}
	return ct, nil
}

func splitDiffFilter(s string) (include, exclude []ChangeType, err error) {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		c := ChangeType(strings.ToUpper(string(ch))[0])
		if _, ok := changeTypeNames[c]; !ok {
			return nil, nil, fmt.Errorf("unknown change type %q in %q", string(ch), s)
		}
		if ch >= 'a' && ch <= 'z' {
			exclude = append(exclude, c)
		} else {
			include = append(include, c)
		}
	}
	return include, exclude, nil
}

func mustParseDiffFilter(s string) ChangeTypes {
	ct, err := ParseDiffFilter(s)
	if err != nil {
		panic(err)
	}
	return ct
}

// Has reports whether c is in the set.
func (ct ChangeTypes) Has(c ChangeType) bool {
	for _, x := range ct {
		if x == c {
			return true
		}
	}
	return false
}

// Without returns a copy of the set minus the given types.
func (ct ChangeTypes) Without(types ...ChangeType) ChangeTypes {
	var out ChangeTypes
	for _, c := range ct {
		drop := false
		for _, x := range types {
			if c == x {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, c)
		}
	}
	return out
}

// DiffFilter renders the set as an upper-case --diff-filter value.
func (ct ChangeTypes) DiffFilter() string {
	var b strings.Builder
	for _, c := range NewChangeTypes(ct...) {
		b.WriteByte(byte(c))
	}
	return b.String()
}

// Names returns the status names in letter order.
func (ct ChangeTypes) Names() []string {
	names := make([]string, 0, len(ct))
	for _, c := range NewChangeTypes(ct...) {
		names = append(names, c.String())
	}
	return names
}

func (ct ChangeTypes) String() string {
	if len(ct) == 0 {
		return "all"
	}
	return strings.Join(ct.Names(), ",")
}
