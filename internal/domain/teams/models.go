package teams

// Team is the normalized team reference carried on a match.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}
