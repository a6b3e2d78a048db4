package game

import "janken_backend/internal/domain"

// Judge resolves a full set of choices into a result.
//
// Users are partitioned into rock/scissors/paper throwers; a group beats
// the one group it dominates, all three present is a stand-off. Winner
// order follows the session's user order. Pure function, no error paths:
// hand validity is enforced at parse time.
func Judge(users []string, choices map[string]domain.Choice) domain.Result {
	var rocks, scissors, papers []string
	for _, user := range users {
		choice, ok := choices[user]
		if !ok {
			continue
		}
		switch choice.Hand {
		case domain.HandRock:
			rocks = append(rocks, user)
		case domain.HandScissors:
			scissors = append(scissors, user)
		case domain.HandPaper:
			papers = append(papers, user)
		}
	}

	switch {
	case len(rocks) > 0 && len(scissors) > 0 && len(papers) > 0:
		return domain.Result{Status: domain.StatusDraw}
	case len(rocks) > 0 && len(scissors) > 0:
		return domain.Result{Status: domain.StatusRockWin, Winners: rocks}
	case len(scissors) > 0 && len(papers) > 0:
		return domain.Result{Status: domain.StatusScissorsWin, Winners: scissors}
	case len(papers) > 0 && len(rocks) > 0:
		return domain.Result{Status: domain.StatusPaperWin, Winners: papers}
	}
	return domain.Result{Status: domain.StatusDraw}
}
