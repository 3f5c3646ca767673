package routes

import "testing"

type idSet map[string]struct{}

func (s idSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func registryWith(ids ...string) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func newTestTable(base string, ids ...string) *Table {
	return New(base, DefaultStaticRoutes(), registryWith(ids...))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		base string
		in   string
		want string
	}{
		{name: "root stays root", base: "", in: "/", want: "/"},
		{name: "trailing slash stripped", base: "", in: "/work/", want: "/work"},
		{name: "missing leading slash added", base: "", in: "work", want: "/work"},
		{name: "empty becomes root", base: "", in: "", want: "/"},
		{name: "nested path", base: "", in: "/work/portfolio/", want: "/work/portfolio"},
		{name: "base prefix with slash", base: "/site", in: "/site/work", want: "/work"},
		{name: "base prefix trailing slash form", base: "/site/", in: "/site/work/", want: "/work"},
		{name: "bare base is root", base: "/site", in: "/site", want: "/"},
		{name: "unprefixed path with base configured", base: "/site", in: "/work", want: "/work"},
		{name: "base only with trailing slash", base: "/site", in: "/site/", want: "/"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tbl := newTestTable(tc.base)
			got := tbl.Normalize(tc.in)
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tbl := newTestTable("/site")
	paths := []string{"/", "/work", "/about", "/contact", "/work/portfolio", "/work/portfolio/design"}
	for _, p := range paths {
		if got := tbl.Normalize(p); got != p {
			t.Fatalf("Normalize(%q) = %q, want unchanged", p, got)
		}
		double := tbl.Normalize(tbl.Normalize("/site" + p))
		if double != p {
			t.Fatalf("double Normalize of %q = %q, want %q", "/site"+p, double, p)
		}
	}
}

func TestBasePrefixTransparency(t *testing.T) {
	withBase := newTestTable("/site/")
	noBase := newTestTable("")

	if got := withBase.Normalize("/site/work"); got != "/work" {
		t.Fatalf("with base: got %q, want /work", got)
	}
	if got := noBase.Normalize("/work"); got != "/work" {
		t.Fatalf("no base: got %q, want /work", got)
	}
}

func TestPathToID(t *testing.T) {
	tbl := newTestTable("", "case-portfolio", "case-portfolio-design")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "root", path: "/", want: "intro"},
		{name: "work", path: "/work", want: "work"},
		{name: "about", path: "/about", want: "about"},
		{name: "contact", path: "/contact", want: "contact"},
		{name: "case study", path: "/work/portfolio", want: "case-portfolio"},
		{name: "case sub page", path: "/work/portfolio/design", want: "case-portfolio-design"},
		{name: "unknown case study", path: "/work/missing", want: ""},
		{name: "unknown path", path: "/blog", want: ""},
		{name: "work prefix only", path: "/work/", want: ""},
		{name: "too many segments", path: "/work/a/b/c", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tbl.PathToID(tc.path); got != tc.want {
				t.Fatalf("PathToID(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}

func TestIDToPath(t *testing.T) {
	tbl := newTestTable("", "case-portfolio", "case-portfolio-design")

	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "intro", id: "intro", want: "/"},
		{name: "work", id: "work", want: "/work"},
		{name: "case study", id: "case-portfolio", want: "/work/portfolio"},
		{name: "case sub page", id: "case-portfolio-design", want: "/work/portfolio/design"},
		{name: "unknown id", id: "footer", want: ""},
		{name: "bare case prefix", id: "case-", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tbl.IDToPath(tc.id); got != tc.want {
				t.Fatalf("IDToPath(%q) = %q, want %q", tc.id, got, tc.want)
			}
		})
	}
}

func TestRoundTripStaticRoutes(t *testing.T) {
	tbl := newTestTable("", "case-portfolio")
	for _, r := range DefaultStaticRoutes() {
		if got := tbl.PathToID(tbl.IDToPath(r.SectionID)); got != r.SectionID {
			t.Fatalf("round trip for %q: got %q", r.SectionID, got)
		}
	}
}

func TestRoundTripSingleHyphenCase(t *testing.T) {
	tbl := newTestTable("", "case-portfolio", "case-portfolio-design")
	for _, id := range []string{"case-portfolio", "case-portfolio-design"} {
		if got := tbl.PathToID(tbl.IDToPath(id)); got != id {
			t.Fatalf("round trip for %q: got %q", id, got)
		}
	}
}

// Slugs that contain hyphens are split at the first hyphen, so an id like
// case-semester-project-1 resolves to /work/semester/project-1, not
// /work/semester-project-1. This is the documented id-scheme boundary, kept
// deliberately; the test pins the behavior rather than the wish.
func TestHyphenatedSlugSplitsAtFirstHyphen(t *testing.T) {
	tbl := newTestTable("", "case-semester-project-1")

	got := tbl.IDToPath("case-semester-project-1")
	if got != "/work/semester/project-1" {
		t.Fatalf("IDToPath = %q, want /work/semester/project-1", got)
	}

	// The round trip does not return to the original id because the path
	// /work/semester/project-1 synthesizes case-semester-project-1 again
	// only if the registry contains it; here it does, so resolution happens
	// to succeed even though the slug/sub split is wrong for the author.
	if id := tbl.PathToID(got); id != "case-semester-project-1" {
		t.Fatalf("PathToID(%q) = %q", got, id)
	}

	// But the intended single-section route /work/semester-project-1 does
	// not resolve: the synthesized id case-semester-project-1 exists, and
	// the first-hyphen inverse can never reproduce that path.
	if id := tbl.PathToID("/work/semester-project-1"); id != "case-semester-project-1" {
		t.Fatalf("PathToID(/work/semester-project-1) = %q", id)
	}
	if back := tbl.IDToPath("case-semester-project-1"); back == "/work/semester-project-1" {
		t.Fatalf("inverse unexpectedly produced the hyphenated-slug path")
	}
}

func TestWithBase(t *testing.T) {
	tbl := newTestTable("/site")
	if got := tbl.WithBase("/work"); got != "/site/work" {
		t.Fatalf("WithBase(/work) = %q", got)
	}
	if got := tbl.WithBase("/"); got != "/site/" {
		t.Fatalf("WithBase(/) = %q", got)
	}

	root := newTestTable("")
	if got := root.WithBase("/work"); got != "/work" {
		t.Fatalf("WithBase without base = %q", got)
	}
}
