package matchdomain

// CourtPosition is one role on a side's court.
type CourtPosition struct {
	Role     string   `json:"role"`
	Label    string   `json:"label"`
	Player   PlayerID `json:"player"`
	FrontRow bool     `json:"front_row"`
}

// SideView is a read model of one side.
type SideView struct {
	Team     string          `json:"team"`
	Started  bool            `json:"started"`
	Rotation int             `json:"rotation"`
	Lineup   *Lineup         `json:"lineup,omitempty"`
	Court    []CourtPosition `json:"court,omitempty"`
	Active   []PlayerID      `json:"active,omitempty"`
	Bench    []PlayerID      `json:"bench,omitempty"`
}

// View is a read model of the whole match.
type View struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Label          string       `json:"label"`
	Set            int          `json:"set"`
	State          MatchState   `json:"state"`
	Home           SideView     `json:"home"`
	Away           SideView     `json:"away"`
	PendingRallies int          `json:"pending_rallies"`
	LastRally      *RallyRecord `json:"last_rally,omitempty"`
}

// View builds the read model.
func (m *Match) View() View {
	v := View{
		ID:             m.id,
		Name:           m.name,
		Label:          m.Label(),
		Set:            m.set,
		State:          m.state,
		Home:           m.SideView(SideHome),
		Away:           m.SideView(SideAway),
		PendingRallies: m.ledger.Len(),
	}
	if last, ok := m.ledger.Last(); ok {
		v.LastRally = &last
	}
	return v
}

// SideView builds the read model of one side. side must be valid.
func (m *Match) SideView(side Side) SideView {
	t := m.team(side)
	rotation := m.state.Rotation(side)
	sv := SideView{Team: t.name, Rotation: rotation}
	if t.lineup != nil {
		l := *t.lineup
		sv.Started = true
		sv.Lineup = &l
		sv.Active = l.Active()
		court := Court(l, rotation)
		sv.Court = make([]CourtPosition, 0, LineupSize)
		for _, r := range Roles {
			sv.Court = append(sv.Court, CourtPosition{
				Role:     r.String(),
				Label:    r.Label(),
				Player:   court[r],
				FrontRow: r.IsFrontRow(),
			})
		}
	}
	for _, e := range t.roster {
		if t.lineup == nil || !t.lineup.Contains(e.Player) {
			sv.Bench = append(sv.Bench, e.Player)
		}
	}
	return sv
}
