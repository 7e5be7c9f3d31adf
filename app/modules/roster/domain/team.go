package rosterdomain

// Team is a named roster.
type Team struct {
	Name    string   `json:"name"`
	Players []Player `json:"players"`
}

// Find returns the player with key.
func (t Team) Find(key string) (Player, bool) {
	for _, p := range t.Players {
		if p.Key == key {
			return p, true
		}
	}
	return Player{}, false
}
