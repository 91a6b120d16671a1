package distindex

import "testing"

func TestParseWheelFilename(t *testing.T) {
	testCases := []struct {
		filename string
		name     string
		version  string
		numTags  int
	}{
		{"distribution-1.0-1-py27-none-any.whl", "distribution", "1.0", 1},
		{"tqdm-4.48.2-py2.py3-none-any.whl", "tqdm", "4.48.2", 2},
		{
			"numpy-1.14.5-cp27-cp27m-macosx_10_6_intel.macosx_10_9_intel.macosx_10_9_x86_64.macosx_10_10_intel.macosx_10_10_x86_64.whl",
			"numpy", "1.14.5", 5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			name, v, tags, err := ParseWheelFilename(tc.filename)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tc.name {
				t.Fatalf("got name %q, want %q", name, tc.name)
			}
			if v.String() != tc.version {
				t.Fatalf("got version %q, want %q", v.String(), tc.version)
			}
			if len(tags) != tc.numTags {
				t.Fatalf("got %d tags, want %d: %v", len(tags), tc.numTags, tags)
			}
		})
	}
}

func TestParseWheelFilenameRejectsNonWheel(t *testing.T) {
	if _, _, _, err := ParseWheelFilename("distribution-1.0.tar.gz"); err == nil {
		t.Fatalf("expected an error for a non-wheel filename")
	}
}

func TestParseSdistFilename(t *testing.T) {
	name, v, err := ParseSdistFilename("python-slugify-3.0.0.tar.gz", ".tar.gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "python-slugify" {
		t.Fatalf("got name %q, want %q", name, "python-slugify")
	}
	if v.String() != "3.0.0" {
		t.Fatalf("got version %q, want %q", v.String(), "3.0.0")
	}
}

func TestVersionMapResolve(t *testing.T) {
	vm := VersionMap{Name: "a", Distributions: []Distribution{
		{Name: "a", Version: mustParseAll("1.0")[0], Kind: Wheel},
	}}

	d, ok := vm.Resolve(mustParseAll("1.0")[0])
	if !ok || d.Kind != Wheel {
		t.Fatalf("expected to resolve version 1.0 to a wheel, got %+v, ok=%v", d, ok)
	}

	if _, ok := vm.Resolve(mustParseAll("2.0")[0]); ok {
		t.Fatalf("did not expect to resolve an unknown version")
	}
}
