package fleet

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFleetFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write fleet file: %v", err)
	}
	return path
}

const validFleet = `
vessels:
  - slug: paradise
    name: MAS Paradise
    cruise_id: "61"
    mmsi: "311000969"
    mtn_account_id: 1328
    mtn_site_id: 850
  - slug: islander
    name: MAS Islander
    cruise_id: "62"
    mmsi: "311001170"
    mtn_account_id: 1327
    mtn_site_id: 916
    timezone: America/New_York
`

func TestLoaderValid(t *testing.T) {
	vessels, err := NewLoader(writeFleetFile(t, validFleet)).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(vessels) != 2 {
		t.Fatalf("len(vessels) = %d, want 2", len(vessels))
	}
	if vessels[0].Slug != "paradise" || vessels[0].MTNSiteID != 850 {
		t.Errorf("vessels[0] = %+v", vessels[0])
	}
	if vessels[1].Timezone != "America/New_York" {
		t.Errorf("vessels[1].Timezone = %q", vessels[1].Timezone)
	}
}

func TestLoaderResolvesTimezone(t *testing.T) {
	vessels, err := NewLoader(writeFleetFile(t, validFleet)).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// No timezone in the file means the caller's fallback wins.
	if got := vessels[0].Location(chicago); got != chicago {
		t.Errorf("vessels[0].Location = %v, want fallback", got)
	}
	// An explicit timezone overrides the fallback.
	if got := vessels[1].Location(chicago); got.String() != "America/New_York" {
		t.Errorf("vessels[1].Location = %v, want America/New_York", got)
	}
}

func TestLoaderRejectsBadFleets(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"empty file", ""},
		{"no vessels", "vessels: []"},
		{"missing slug", "vessels:\n  - name: X\n    cruise_id: \"1\"\n    mmsi: \"2\"\n    mtn_account_id: 1\n    mtn_site_id: 1"},
		{"missing cruise id", "vessels:\n  - slug: x\n    mmsi: \"2\"\n    mtn_account_id: 1\n    mtn_site_id: 1"},
		{"missing mmsi", "vessels:\n  - slug: x\n    cruise_id: \"1\"\n    mtn_account_id: 1\n    mtn_site_id: 1"},
		{"missing site ids", "vessels:\n  - slug: x\n    cruise_id: \"1\"\n    mmsi: \"2\""},
		{"duplicate slug", validFleet + "  - slug: paradise\n    cruise_id: \"9\"\n    mmsi: \"9\"\n    mtn_account_id: 9\n    mtn_site_id: 9\n"},
		{"not yaml", "{{{"},
		{"bad timezone", "vessels:\n  - slug: x\n    cruise_id: \"1\"\n    mmsi: \"2\"\n    mtn_account_id: 1\n    mtn_site_id: 1\n    timezone: Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLoader(writeFleetFile(t, tt.contents)).Load(); err == nil {
				t.Error("Load succeeded, want error")
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if r.Count() != 0 || !r.LastReload().IsZero() {
		t.Fatal("fresh registry not empty")
	}

	r.Update([]Vessel{
		{Slug: "paradise", Name: "MAS Paradise"},
		{Slug: "islander", Name: "MAS Islander"},
	})

	if r.Count() != 2 {
		t.Errorf("Count = %d, want 2", r.Count())
	}
	if v, ok := r.Get("islander"); !ok || v.Name != "MAS Islander" {
		t.Errorf("Get(islander) = %+v, %v", v, ok)
	}
	if _, ok := r.Get("ghost"); ok {
		t.Error("Get(ghost) found a vessel")
	}
	if all := r.All(); len(all) != 2 || all[0].Slug != "paradise" {
		t.Errorf("All = %+v, want file order", all)
	}
	if r.LastReload().IsZero() {
		t.Error("LastReload still zero after Update")
	}

	// Update replaces, never merges.
	r.Update([]Vessel{{Slug: "islander", Name: "MAS Islander"}})
	if r.Count() != 1 {
		t.Errorf("Count after replace = %d, want 1", r.Count())
	}
	if _, ok := r.Get("paradise"); ok {
		t.Error("stale vessel survived Update")
	}
}
