package handlers

import "testing"

func TestBlogSlugFromTitle(t *testing.T) {
	if got := blogSlug("Choosing The Right Brake Pads", ""); got != "choosing-the-right-brake-pads" {
		t.Fatalf("unexpected slug %q", got)
	}
}

func TestBlogSlugExplicitOverride(t *testing.T) {
	if got := blogSlug("Some Title", "Custom Slug Here"); got != "custom-slug-here" {
		t.Fatalf("unexpected slug %q", got)
	}
}

func TestBlogSlugWhitespaceOverrideIgnored(t *testing.T) {
	if got := blogSlug("Fallback Title", "   "); got != "fallback-title" {
		t.Fatalf("unexpected slug %q", got)
	}
}
