package venues

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeatMap_FullDocument(t *testing.T) {
	doc := `{"sections":[{"name":"1구역"},{"name":"2구역"}],"seats_per_row":30}`

	section, seatsPerRow := ParseSeatMap(doc)

	assert.Equal(t, "1구역", section)
	assert.Equal(t, 30, seatsPerRow)
}

func TestParseSeatMap_MissingDocumentFallsBack(t *testing.T) {
	section, seatsPerRow := ParseSeatMap("")

	assert.Equal(t, DefaultSection, section)
	assert.Equal(t, DefaultSeatsPerRow, seatsPerRow)
}

func TestParseSeatMap_MalformedDocumentFallsBack(t *testing.T) {
	section, seatsPerRow := ParseSeatMap(`{"sections":[`)

	assert.Equal(t, DefaultSection, section)
	assert.Equal(t, DefaultSeatsPerRow, seatsPerRow)
}

func TestParseSeatMap_PartialDocumentKeepsDefaults(t *testing.T) {
	// Sections without names and a zero per-row count are as good as absent.
	section, seatsPerRow := ParseSeatMap(`{"sections":[{"name":""}],"seats_per_row":0}`)

	assert.Equal(t, DefaultSection, section)
	assert.Equal(t, DefaultSeatsPerRow, seatsPerRow)
}

func TestParseSeatMap_SectionOnly(t *testing.T) {
	section, seatsPerRow := ParseSeatMap(`{"sections":[{"name":"스탠딩"}]}`)

	assert.Equal(t, "스탠딩", section)
	assert.Equal(t, DefaultSeatsPerRow, seatsPerRow)
}
