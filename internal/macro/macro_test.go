package macro

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"text/template"

	"github.com/dshills/gitrange/internal/cache"
	"github.com/dshills/gitrange/internal/gitctx"
	"github.com/dshills/gitrange/internal/gittest"
	"github.com/dshills/gitrange/internal/pathmap"
)

type fakeDiffer struct {
	changed map[gitctx.Range][]string
	calls   []gitctx.Range
}

func (f *fakeDiffer) ChangedFiles(ctx context.Context, rng gitctx.Range, scope string, types gitctx.ChangeTypes) *pathmap.Set {
	f.calls = append(f.calls, rng)
	return pathmap.NewSet(f.changed[rng]...)
}

func newLister(t *testing.T, d Differ, memo *cache.Memo, files *pathmap.Set) Lister {
	t.Helper()
	m, err := pathmap.New("docs", "/repo")
	if err != nil {
		t.Fatalf("pathmap.New error: %v", err)
	}
	return New(Config{
		Repo:   d,
		Mapper: m,
		Range:  gitctx.Range{From: "c1", To: "c2"},
		Scope:  "docs",
		Types:  gitctx.DefaultChangeTypes,
		Memo:   memo,
		Files:  files,
	})
}

func TestRange_Overrides(t *testing.T) {
	l := newLister(t, &fakeDiffer{}, nil, nil)
	tests := []struct {
		refs []string
		want gitctx.Range
	}{
		{nil, gitctx.Range{From: "c1", To: "c2"}},
		{[]string{"v1"}, gitctx.Range{From: "v1", To: "c2"}},
		{[]string{"v1", "v2"}, gitctx.Range{From: "v1", To: "v2"}},
		{[]string{"", "v2"}, gitctx.Range{From: "c1", To: "v2"}},
		{[]string{" v1 "}, gitctx.Range{From: "v1", To: "c2"}},
	}
	for _, tt := range tests {
		got, err := l.Range(tt.refs...)
		if err != nil {
			t.Fatalf("Range(%v) error: %v", tt.refs, err)
		}
		if got != tt.want {
			t.Errorf("Range(%v) = %v, want %v", tt.refs, got, tt.want)
		}
	}
}

func TestList_TooManyRefs(t *testing.T) {
	d := &fakeDiffer{}
	l := newLister(t, d, nil, nil)
	_, err := l.List(context.Background(), "a", "b", "c")
	if !errors.Is(err, ErrTooManyRefs) {
		t.Errorf("err = %v, want ErrTooManyRefs", err)
	}
	if len(d.calls) != 0 {
		t.Error("no diff should run for a rejected call")
	}
}

func TestList_SortedDocPaths(t *testing.T) {
	d := &fakeDiffer{changed: map[gitctx.Range][]string{
		{From: "c1", To: "c2"}: {"docs/new.md", "README.md", "docs/api/z.md", "docs/guide.md"},
	}}
	l := newLister(t, d, nil, nil)
	got, err := l.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	want := "api/z.md,guide.md,new.md"
	if strings.Join(got, ",") != want {
		t.Errorf("List = %v, want %s", got, want)
	}
}

func TestList_RestrictedToFileSet(t *testing.T) {
	d := &fakeDiffer{changed: map[gitctx.Range][]string{
		{From: "c1", To: "c2"}: {"docs/guide.md", "docs/drafts/wip.md"},
	}}
	l := newLister(t, d, nil, pathmap.NewSet("guide.md", "index.md"))
	got, err := l.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if strings.Join(got, ",") != "guide.md" {
		t.Errorf("List = %v, want [guide.md]", got)
	}
}

func TestList_MemoizedPerRange(t *testing.T) {
	d := &fakeDiffer{changed: map[gitctx.Range][]string{
		{From: "c1", To: "c2"}: {"docs/guide.md"},
		{From: "v1", To: "c2"}: {"docs/guide.md", "docs/new.md"},
	}}
	memo := cache.New(true)
	l := newLister(t, d, memo, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := l.List(ctx); err != nil {
			t.Fatal(err)
		}
		got, err := l.List(ctx, "v1")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Errorf("List(v1) = %v, want 2 paths", got)
		}
	}
	if len(d.calls) != 2 {
		t.Errorf("diff ran %d times, want 2 (one per distinct range)", len(d.calls))
	}
	if s := memo.GetStats(); s.Hits != 4 || s.Entries != 2 {
		t.Errorf("memo stats = %+v, want 4 hits over 2 entries", s)
	}
}

func TestList_NoMemoRunsEveryTime(t *testing.T) {
	d := &fakeDiffer{}
	l := newLister(t, d, nil, nil)
	l.List(context.Background())
	l.List(context.Background())
	if len(d.calls) != 2 {
		t.Errorf("diff ran %d times, want 2", len(d.calls))
	}
}

func render(t *testing.T, l Lister, src string) (string, error) {
	t.Helper()
	tmpl, err := template.New("page").Funcs(l.FuncMap(context.Background())).Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, nil)
	return buf.String(), err
}

func TestFuncMap_TemplateUsage(t *testing.T) {
	d := &fakeDiffer{changed: map[gitctx.Range][]string{
		{From: "c1", To: "c2"}: {"docs/new.md", "docs/guide.md"},
	}}
	l := newLister(t, d, cache.New(true), nil)

	got, err := render(t, l, `{{ range git_range }}- {{ . }}
{{ end }}`)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if got != "- guide.md\n- new.md\n" {
		t.Errorf("render = %q", got)
	}

	got, err = render(t, l, `{{ if git_range "c2" "c2" }}changes{{ else }}no changes{{ end }}`)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if got != "no changes" {
		t.Errorf("render = %q, want %q", got, "no changes")
	}
}

func TestFuncMap_TooManyRefsIsTemplateError(t *testing.T) {
	l := newLister(t, &fakeDiffer{}, nil, nil)
	_, err := render(t, l, `{{ git_range "a" "b" "c" }}`)
	if err == nil {
		t.Fatal("expected template execution error")
	}
	if !errors.Is(err, ErrTooManyRefs) {
		t.Errorf("err = %v, want to wrap ErrTooManyRefs", err)
	}
}

func TestList_RealRepository(t *testing.T) {
	fx := gittest.NewDocs(t)
	ctx := context.Background()
	repo, err := gitctx.Open(ctx, fx.Dir)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	m, err := pathmap.New("docs", repo.Root())
	if err != nil {
		t.Fatalf("pathmap.New error: %v", err)
	}
	l := New(Config{
		Repo:   repo,
		Mapper: m,
		Range:  gitctx.Range{From: fx.C1, To: fx.C2},
		Scope:  "docs",
		Types:  gitctx.DefaultChangeTypes,
		Memo:   cache.New(true),
	})

	got, err := l.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if strings.Join(got, ",") != "guide.md,new.md" {
		t.Errorf("List = %v, want [guide.md new.md]", got)
	}

	same, err := l.List(ctx, fx.C2, fx.C2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(same) != 0 {
		t.Errorf("List(C2, C2) = %v, want empty", same)
	}
}
