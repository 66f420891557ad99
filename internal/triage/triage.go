package triage

// Category is the handling category assigned to a session by triage.
// It is assigned at most once per session and never changes afterward.
type Category string

const (
	CategoryUnset        Category = ""
	CategoryGeneral      Category = "general"
	CategoryEmergency    Category = "emergency"
	CategoryMentalHealth Category = "mental_health"
)

// Label returns the human-readable form used in prompts and client events
func (c Category) Label() string {
	switch c {
	case CategoryGeneral:
		return "General"
	case CategoryEmergency:
		return "Emergency"
	case CategoryMentalHealth:
		return "Mental Health"
	default:
		return "Unclassified"
	}
}

// Valid reports whether c is one of the three assignable categories
func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryEmergency, CategoryMentalHealth:
		return true
	}
	return false
}
