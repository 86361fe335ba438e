package wiki

import "strings"

type Status string

const (
	StatusIncumbent Status = "재임"
	StatusActing    Status = "권한대행"
)

// the source encodes a vacancy only in the free-text notes column or
// as a name suffix, there is no structured field for it
var actingNoteMarkers = []string{"권한대행", "직무대행"}

const actingNameMarker = "(대행)"

// DeriveStatus computes the acting/incumbent status from the
// authoritative source fields. It is recomputed wherever the status is
// needed and never trusted from a stored copy, a stale flag here would
// silently break predecessor matching.
func DeriveStatus(notes, name string) Status {
	for _, marker := range actingNoteMarkers {
		if strings.Contains(notes, marker) {
			return StatusActing
		}
	}
	if strings.Contains(name, actingNameMarker) {
		return StatusActing
	}
	return StatusIncumbent
}

// the source tables carry no structured inauguration date, everyone
// from the 2022 local election gets the term start
const DefaultInaugurationDate = "2022-07-01"

// OfficialRecord is one officeholder row. The json tags are the wire
// names the read path serves.
type OfficialRecord struct {
	Region           string `json:"metropolitanRegion"`
	Position         string `json:"position"`
	Name             string `json:"name"`
	Party            string `json:"party"`
	InaugurationDate string `json:"inaugurationDate"`
	Status           Status `json:"status"`
	Notes            string `json:"notes"`
	PreviousGovernor string `json:"previousGovernor,omitempty"`
}
