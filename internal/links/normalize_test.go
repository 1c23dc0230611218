package links_test

import (
	"testing"

	"github.com/jonesrussell/newsradar/internal/links"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"lowercase scheme and host", "HTTP://Example.com/Path", "http://example.com/Path", false},
		{"keep https", "https://example.com/path", "https://example.com/path", false},

		{"remove default https port", "https://example.com:443/path", "https://example.com/path", false},
		{"remove default http port", "http://example.com:80/path", "http://example.com/path", false},
		{"keep non-default port", "https://example.com:8080/path", "https://example.com:8080/path", false},

		{"remove trailing slash", "https://example.com/path/", "https://example.com/path", false},
		{"root collapses", "https://example.com/", "https://example.com", false},
		{"resolve dot segments", "https://example.com/a/b/../c", "https://example.com/a/c", false},

		{"remove fragment", "https://example.com/path#section", "https://example.com/path", false},

		{"sort query params", "https://example.com/path?z=1&a=2", "https://example.com/path?a=2&z=1", false},
		{"strip utm params", "https://example.com/path?utm_source=twitter&id=1", "https://example.com/path?id=1", false},
		{"strip fbclid", "https://example.com/path?fbclid=abc&id=1", "https://example.com/path?id=1", false},
		{"empty query after stripping", "https://example.com/path?utm_source=x", "https://example.com/path", false},

		{"empty string", "", "", true},
		{"missing scheme", "example.com/path", "", true},
		{"non-http scheme", "ftp://example.com/file", "", true},
		{"mailto", "mailto:someone@example.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := links.Normalize(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Normalize(%q) expected error, got nil", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("Normalize(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_EquivalentURLs(t *testing.T) {
	a, err := links.Normalize("HTTPS://Example.com/path?b=2&a=1")
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}

	b, err := links.Normalize("https://example.com/path/?a=1&b=2#frag")
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}

	if a != b {
		t.Errorf("expected identical strings for equivalent URLs, got %q and %q", a, b)
	}
}

func TestHost(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain host", "https://example.com/path", "example.com", false},
		{"host with port", "https://Example.com:8080/path", "example.com", false},
		{"empty", "", "", true},
		{"no host", "/relative/path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := links.Host(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Host(%q) expected error, got nil", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("Host(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("Host(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
