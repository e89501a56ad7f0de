// internal/gyms/recommendations.go

package gyms

import "sort"

// Rank scores every gym for profile and orders them best first.
// Equal scores keep their input order.
func Rank(profile Profile, gyms []*Gym) []*ScoredGym {
	scored := make([]*ScoredGym, 0, len(gyms))
	for _, g := range gyms {
		s := Score(profile, g)
		observeScore(s)
		scored = append(scored, &ScoredGym{Gym: g, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
