package logging

import (
	"testing"

	"skellylogs/internal/severity"
)

func TestSourceFloorsLongestPrefixWins(t *testing.T) {
	sf := NewSourceFloors(map[string]severity.Level{
		"net":       severity.Warning,
		"net.http.": severity.Debug,
		"":          severity.Critical,
	})

	cases := []struct {
		source string
		floor  severity.Level
		found  bool
	}{
		{"net", severity.Warning, true},
		{"net.dns", severity.Warning, true},
		{"net.http", severity.Debug, true},
		{"net.http.client", severity.Debug, true},
		{"network", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		floor, found := sf.Lookup(tc.source)
		if found != tc.found || floor != tc.floor {
			t.Errorf("Lookup(%q) = %v,%v want %v,%v", tc.source, floor, found, tc.floor, tc.found)
		}
	}
	if got := len(sf.Map()); got != 2 {
		t.Fatalf("expected blank names dropped, got %d floors", got)
	}
}

func TestSourceFloorsAdmits(t *testing.T) {
	sf := NewSourceFloors(map[string]severity.Level{"db": severity.Error})
	if sf.Admits("db.pool", severity.Warning) {
		t.Fatal("WARNING should be gated")
	}
	if !sf.Admits("db.pool", severity.Critical) {
		t.Fatal("CRITICAL should pass")
	}
	if !sf.Admits("api", severity.Loop) {
		t.Fatal("ungoverned sources pass")
	}

	var none *SourceFloors
	if !none.Admits("any", severity.Loop) {
		t.Fatal("nil floors admit everything")
	}
}
