package generator

import "testing"

func TestBuildOutputPath(t *testing.T) {
	cases := []struct {
		route string
		want  string
	}{
		{"/", "index.html"},
		{"", "index.html"},
		{"  ", "index.html"},
		{"/posts/counting-sheep", "posts/counting-sheep/index.html"},
		{"/posts/counting-sheep/", "posts/counting-sheep/index.html"},
		{"/tags/go", "tags/go/index.html"},
		{"about", "about/index.html"},
	}
	for _, tc := range cases {
		if got := buildOutputPath(tc.route); got != tc.want {
			t.Errorf("buildOutputPath(%q): expected %q, got %q", tc.route, tc.want, got)
		}
	}
}

func TestJoinOutputPath(t *testing.T) {
	cases := []struct {
		base string
		rel  string
		want string
	}{
		{"dist", "index.html", "dist/index.html"},
		{"dist/", "posts/a/index.html", "dist/posts/a/index.html"},
		{"", "/index.html", "index.html"},
		{"", "index.html", "index.html"},
		{"/dist/", "sitemap.xml", "dist/sitemap.xml"},
	}
	for _, tc := range cases {
		if got := joinOutputPath(tc.base, tc.rel); got != tc.want {
			t.Errorf("joinOutputPath(%q, %q): expected %q, got %q", tc.base, tc.rel, tc.want, got)
		}
	}
}
