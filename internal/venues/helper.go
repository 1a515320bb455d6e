package venues

import (
	"encoding/json"
)

const (
	// DefaultSection is used when a venue has no seat-map document or the
	// document lists no sections.
	DefaultSection = "9구역"

	// DefaultSeatsPerRow is used when the seat-map document does not set
	// seats_per_row.
	DefaultSeatsPerRow = 20
)

// ParseSeatMap extracts the display section and seats-per-row count from a
// venue's seat-map document. Malformed or missing documents fall back to the
// defaults rather than failing; the projection must render something even for
// venues seeded without layout data.
func ParseSeatMap(seatMap string) (section string, seatsPerRow int) {
	section = DefaultSection
	seatsPerRow = DefaultSeatsPerRow

	if seatMap == "" {
		return section, seatsPerRow
	}

	var doc SeatMapDoc
	if err := json.Unmarshal([]byte(seatMap), &doc); err != nil {
		return section, seatsPerRow
	}

	if len(doc.Sections) > 0 && doc.Sections[0].Name != "" {
		section = doc.Sections[0].Name
	}
	if doc.SeatsPerRow > 0 {
		seatsPerRow = doc.SeatsPerRow
	}
	return section, seatsPerRow
}
