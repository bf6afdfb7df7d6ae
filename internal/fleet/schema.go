package fleet

import "time"

// Config represents the top-level structure of the fleet YAML file.
type Config struct {
	Vessels []Vessel `yaml:"vessels"`
}

// Vessel describes one tracked ship and the identifiers the upstream
// providers know it by.
type Vessel struct {
	Slug         string `yaml:"slug"`           // URL path segment, ex: "paradise"
	Name         string `yaml:"name"`           // display name, ex: "MAS Paradise"
	CruiseID     string `yaml:"cruise_id"`      // CRM cruise identifier for schedule scraping
	MMSI         string `yaml:"mmsi"`           // maritime identifier used to match the tracking sites list
	MTNAccountID int    `yaml:"mtn_account_id"` // tracking provider account
	MTNSiteID    int    `yaml:"mtn_site_id"`    // tracking provider site (terminal aboard the vessel)
	Timezone     string `yaml:"timezone"`       // optional IANA zone override; empty = service default

	// loc is resolved from Timezone by the loader so handlers never
	// re-parse the zone per request.
	loc *time.Location
}

// Location returns the vessel's zone override, or fallback when none is
// configured.
func (v Vessel) Location(fallback *time.Location) *time.Location {
	if v.loc != nil {
		return v.loc
	}
	return fallback
}
