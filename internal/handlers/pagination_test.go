package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsExplicit(t *testing.T) {
	page, limit, err := parsePaginationParams("3", "50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 3 || limit != 50 {
		t.Fatalf("expected 3/50, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsInvalid(t *testing.T) {
	cases := [][2]string{
		{"0", ""},
		{"-1", "10"},
		{"abc", ""},
		{"1", "0"},
		{"1", "xyz"},
	}
	for _, tc := range cases {
		if _, _, err := parsePaginationParams(tc[0], tc[1]); err != errInvalidPagination {
			t.Fatalf("expected errInvalidPagination for page=%q limit=%q, got %v", tc[0], tc[1], err)
		}
	}
}

func TestParseIntParam(t *testing.T) {
	if got := parseIntParam("", 12); got != 12 {
		t.Fatalf("expected fallback 12, got %d", got)
	}
	if got := parseIntParam("7", 12); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := parseIntParam("0", 12); got != 12 {
		t.Fatalf("expected fallback for non-positive value, got %d", got)
	}
	if got := parseIntParam("junk", 12); got != 12 {
		t.Fatalf("expected fallback for junk, got %d", got)
	}
}
