package events

// Genre is the native enum of event genres. Labels are the canonical Korean
// catalog values and are stored as-is.
type Genre string

const (
	GenreMusical    Genre = "뮤지컬"
	GenrePlay       Genre = "연극"
	GenreConcert    Genre = "콘서트"
	GenreExhibition Genre = "전시"
	GenreSports     Genre = "스포츠"
	GenreEtc        Genre = "기타"
)

// IsValid checks if the genre is a known catalog value
func (g Genre) IsValid() bool {
	switch g {
	case GenreMusical, GenrePlay, GenreConcert, GenreExhibition, GenreSports, GenreEtc:
		return true
	}
	return false
}

// String returns the string representation of Genre
func (g Genre) String() string {
	return string(g)
}

// ReceiptMethod is the native enum of ticket receipt methods.
type ReceiptMethod string

const (
	ReceiptDelivery ReceiptMethod = "배송"
	ReceiptOnSite   ReceiptMethod = "현장수령"
	ReceiptBoth     ReceiptMethod = "배송,현장수령"
)

// IsValid checks if the receipt method is a known value
func (m ReceiptMethod) IsValid() bool {
	switch m {
	case ReceiptDelivery, ReceiptOnSite, ReceiptBoth:
		return true
	}
	return false
}

// String returns the string representation of ReceiptMethod
func (m ReceiptMethod) String() string {
	return string(m)
}
