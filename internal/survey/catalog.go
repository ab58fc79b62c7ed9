// Package survey holds the fixed role, experience-band and region catalogs
// that the intake form and the export pipeline share. The catalogs are closed
// sets: unknown keys arriving in a payload are dropped, not stored.
package survey

// Role describes one roofing role and the experience bands it is surveyed at.
type Role struct {
	Key   string
	Label string
	Bands []string
}

// StandardBands applies to every role except apprentices.
var StandardBands = []string{"1_year", "3_years", "6_years", "8_plus"}

// ApprenticeBands tracks apprenticeship stages instead of years of experience.
var ApprenticeBands = []string{"apprentice_1", "apprentice_2", "apprentice_3", "apprentice_4"}

// Roles lists every surveyed role in presentation order. CSV exports and the
// submission writer iterate this slice, so its order is load-bearing.
var Roles = []Role{
	{Key: "qualified_residential", Label: "Qualified Roofer, Residential / Re-roof", Bands: StandardBands},
	{Key: "qualified_commercial", Label: "Qualified Roofer, Commercial / Industrial", Bands: StandardBands},
	{Key: "membrane_specialist", Label: "Membrane / Flat Roof Specialist", Bands: StandardBands},
	{Key: "foreman", Label: "Roofing Foreman / Site Supervisor", Bands: StandardBands},
	{Key: "labourer", Label: "Roofing Labourer / Hammer Hand", Bands: StandardBands},
	{Key: "apprentice", Label: "Roofing Apprentice", Bands: ApprenticeBands},
	{Key: "estimator", Label: "Estimator / Quantity Surveyor, Roofing", Bands: StandardBands},
	{Key: "project_manager", Label: "Project Manager, Roofing", Bands: StandardBands},
	{Key: "admin", Label: "Admin / Office Support", Bands: StandardBands},
	{Key: "subcontractor", Label: "Subcontract Roofer (per hour)", Bands: StandardBands},
}

// BandLabels maps band keys to the labels shown on the form.
var BandLabels = map[string]string{
	"1_year":       "1 year",
	"3_years":      "3 years",
	"6_years":      "6 years",
	"8_plus":       "8 years +",
	"apprentice_1": "Year 1 / Stage 1",
	"apprentice_2": "Year 2 / Stage 2",
	"apprentice_3": "Year 3 / Stage 3",
	"apprentice_4": "Year 4 / Stage 4",
}

// Regions enumerates the accepted survey regions.
var Regions = []string{
	"Northland",
	"Auckland",
	"Waikato",
	"Bay of Plenty",
	"Gisborne",
	"Hawkes Bay",
	"Taranaki",
	"Manawatu-Whanganui",
	"Wellington",
	"Tasman",
	"Nelson",
	"Marlborough",
	"West Coast",
	"Canterbury",
	"Otago",
	"Southland",
}

var (
	roleIndex   map[string]Role
	regionIndex map[string]struct{}
)

func init() {
	roleIndex = make(map[string]Role, len(Roles))
	for _, role := range Roles {
		roleIndex[role.Key] = role
	}

	regionIndex = make(map[string]struct{}, len(Regions))
	for _, region := range Regions {
		regionIndex[region] = struct{}{}
	}
}

// RoleByKey looks up a role definition by its key.
func RoleByKey(key string) (Role, bool) {
	role, ok := roleIndex[key]
	return role, ok
}

// ValidRegion reports whether the supplied region is part of the catalog.
func ValidRegion(region string) bool {
	_, ok := regionIndex[region]
	return ok
}

// ValidRoleBand reports whether the role exists and surveys the given band.
func ValidRoleBand(roleKey, bandKey string) bool {
	role, ok := roleIndex[roleKey]
	if !ok {
		return false
	}
	for _, band := range role.Bands {
		if band == bandKey {
			return true
		}
	}
	return false
}
