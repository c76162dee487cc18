package analysis

import "testing"

func TestCachedDemangle(t *testing.T) {
	testCases := []struct {
		name    string
		mangled string
		want    string
	}{
		{
			name:    "Itanium mangled variable",
			mangled: "_ZN3foo3barE",
			want:    "foo::bar",
		},
		{
			name:    "Plain C name passes through",
			mangled: "g_buffer",
			want:    "g_buffer",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CachedDemangle(tc.mangled); got != tc.want {
				t.Errorf("CachedDemangle(%q) = %q, want %q", tc.mangled, got, tc.want)
			}
			// Second lookup hits the cache and must agree.
			if got := CachedDemangle(tc.mangled); got != tc.want {
				t.Errorf("cached CachedDemangle(%q) = %q, want %q", tc.mangled, got, tc.want)
			}
		})
	}
}

func TestDemangleCacheStats(t *testing.T) {
	CachedDemangle("_ZN4stat5countE")
	CachedDemangle("_ZN4stat5countE")
	CachedDemangle("_ZN4stat5countE")

	names, hits, top := DemangleCacheStats()
	if names == 0 {
		t.Error("cache reports no names after demangling")
	}
	if hits < 2 {
		t.Errorf("cache reports %d hits, want at least 2", hits)
	}
	if len(top) == 0 {
		t.Error("cache reports no top symbols")
	}
}
