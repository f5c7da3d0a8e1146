package agent

// MatchesRubric reports whether the pros/cons counts fit the band the rating
// falls in. The result is only logged; ratings are never rejected on it.
func MatchesRubric(rating float64, pros, cons int) bool {
	switch {
	case rating < 4:
		return pros <= 1 && cons >= 3
	case rating < 7:
		return pros >= 2 && cons >= 2
	default:
		return pros >= 3 && cons <= 1
	}
}
