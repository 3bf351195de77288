package rank

import "fmt"

// Snapshot is a player's standing in one ranked queue at a point in time
type Snapshot struct {
	Tier         string `json:"tier"`
	Division     string `json:"division"`
	LeaguePoints int    `json:"league_points"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// String renders the standing as "GOLD II 40 LP"
func (s Snapshot) String() string {
	if s.Tier == "" {
		return "Unranked"
	}
	return fmt.Sprintf("%s %s %d LP", s.Tier, s.Division, s.LeaguePoints)
}

var tierOrder = map[string]int{
	"IRON":        0,
	"BRONZE":      1,
	"SILVER":      2,
	"GOLD":        3,
	"PLATINUM":    4,
	"EMERALD":     5,
	"DIAMOND":     6,
	"MASTER":      7,
	"GRANDMASTER": 8,
	"CHALLENGER":  9,
}

var divisionOrder = map[string]int{
	"IV":  0,
	"III": 1,
	"II":  2,
	"I":   3,
}

// ladderValue flattens a standing onto a single scale so LP differences can
// be computed across division and tier boundaries. Each division spans 100
// LP and each tier spans four divisions. Master and above sit in a single
// division where LP is unbounded.
func ladderValue(s Snapshot) int {
	return tierOrder[s.Tier]*400 + divisionOrder[s.Division]*100 + s.LeaguePoints
}

// Delta is the day-over-day (or game-over-game) movement between two
// standings in the same queue
type Delta struct {
	From Snapshot
	To   Snapshot

	// LPChange is the signed LP difference across any boundary crossings
	LPChange        int
	TierChanged     bool
	DivisionChanged bool
	Promoted        bool
	Demoted         bool

	WinsDelta   int
	LossesDelta int
}

// Changed reports whether anything moved at all
func (d Delta) Changed() bool {
	return d.LPChange != 0 || d.TierChanged || d.DivisionChanged || d.WinsDelta != 0 || d.LossesDelta != 0
}

// ComputeDelta compares two standings for the same queue
func ComputeDelta(prev, cur Snapshot) Delta {
	d := Delta{
		From:            prev,
		To:              cur,
		LPChange:        ladderValue(cur) - ladderValue(prev),
		TierChanged:     prev.Tier != cur.Tier,
		DivisionChanged: prev.Tier != cur.Tier || prev.Division != cur.Division,
		WinsDelta:       cur.Wins - prev.Wins,
		LossesDelta:     cur.Losses - prev.Losses,
	}
	if d.TierChanged || d.DivisionChanged {
		d.Promoted = d.LPChange > 0
		d.Demoted = d.LPChange < 0
	}
	return d
}
