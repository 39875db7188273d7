package model

// AssignmentMethod indicates how a record received its category.
type AssignmentMethod string

// Assignment method constants.
const (
	MethodBlank    AssignmentMethod = "blank"
	MethodKeyword  AssignmentMethod = "keyword"
	MethodFallback AssignmentMethod = "fallback"
	MethodNone     AssignmentMethod = "none"
)

// Assignment is the outcome of categorizing one piece of text.
type Assignment struct {
	Category string           `json:"category"`
	Method   AssignmentMethod `json:"method"`
	Score    float64          `json:"score"`
}

// IsCategorized reports whether the assignment resolved to a real category.
func (a Assignment) IsCategorized() bool {
	return a.Category != "" && a.Category != Uncategorized
}
