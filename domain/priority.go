package domain

import "fmt"

// Priority of a transaction. Stored and serialized by name; each level carries
// a numeric rank used for ordering.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

var priorityRanks = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

var priorityLabels = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

func (p Priority) Rank() int {
	return priorityRanks[p]
}

func (p Priority) Label() string {
	return priorityLabels[p]
}

func (p Priority) IsValid() bool {
	_, found := priorityRanks[p]
	return found
}

func ParsePriority(value string) (Priority, error) {
	p := Priority(value)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown priority '%s'", value)
	}
	return p, nil
}
