package tickets

// Grade classifies a seat's price tier, stored as the ticket_grade enum.
type Grade string

const (
	GradeVIP Grade = "VIP"
	GradeR   Grade = "R"
	GradeS   Grade = "S"
	GradeA   Grade = "A"
)

// IsValid reports whether the grade is one of the known tiers.
func (g Grade) IsValid() bool {
	switch g {
	case GradeVIP, GradeR, GradeS, GradeA:
		return true
	}
	return false
}

func (g Grade) String() string {
	return string(g)
}
