package scraper

import (
	"reflect"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"https passes through", "https://ex.com/a", "https://ex.com/a", false},
		{"http passes through", "http://ex.com/a", "http://ex.com/a", false},
		{"bare host gets https", "ex.com/a", "https://ex.com/a", false},
		{"whitespace trimmed", "  ex.com  ", "https://ex.com", false},
		{"empty rejected", "", "", true},
		{"whitespace only rejected", "   ", "", true},
		{"no host rejected", "https://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeURL(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDedupeURLs(t *testing.T) {
	t.Parallel()

	in := []string{"https://a.com", "https://b.com", "https://a.com", "https://c.com", "https://b.com"}
	want := []string{"https://a.com", "https://b.com", "https://c.com"}
	if got := DedupeURLs(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("DedupeURLs(%v) = %v, want %v", in, got, want)
	}

	if got := DedupeURLs(nil); len(got) != 0 {
		t.Fatalf("DedupeURLs(nil) = %v, want empty", got)
	}
}

func TestDomainFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://www.example.com/news/1", "example.com"},
		{"https://Example.COM/a", "example.com"},
		{"https://sub.news.org/x", "sub.news.org"},
		{"https://example.com:8080/a", "example.com"},
		{"://bad", ""},
	}
	for _, tt := range tests {
		if got := DomainFromURL(tt.in); got != tt.want {
			t.Fatalf("DomainFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
