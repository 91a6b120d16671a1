package pep508

import (
	"fmt"
	"testing"
)

func TestParseDependency(t *testing.T) {
	testCases := []struct {
		input       string
		name        string
		extras      []string
		numVersions int
	}{
		{"requests", "requests", nil, 0},
		{"requests[security,socks]", "requests", []string{"security", "socks"}, 0},
		{"requests>=2.8.1,<3", "requests", nil, 2},
		{"requests (>=2.8.1)", "requests", nil, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			d, err := ParseDependency(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Name != tc.name {
				t.Fatalf("got name %q, want %q", d.Name, tc.name)
			}
			if len(d.Versions) != tc.numVersions {
				t.Fatalf("got %d versions, want %d", len(d.Versions), tc.numVersions)
			}
			if fmt.Sprint(d.Extras) != fmt.Sprint(tc.extras) && len(d.Extras)+len(tc.extras) != 0 {
				t.Fatalf("got extras %v, want %v", d.Extras, tc.extras)
			}
		})
	}
}

func TestParseDependencyURL(t *testing.T) {
	d, err := ParseDependency("requests @ https://example.com/requests-2.8.1.tar.gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.URL != "https://example.com/requests-2.8.1.tar.gz" {
		t.Fatalf("got url %q", d.URL)
	}
}

func TestParseDependencyMarker(t *testing.T) {
	d, err := ParseDependency(`pywin32 ; sys_platform == "win32"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := d.Evaluate(fakeEnv{"sys_platform": "win32"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected marker to match win32")
	}

	ok, err = d.Evaluate(fakeEnv{"sys_platform": "linux"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("did not expect marker to match linux")
	}
}

type fakeEnv map[string]string

func (e fakeEnv) Get(k string) (string, error) {
	return e[k], nil
}
