// internal/gyms/scorer.go
// Deterministic 0-100 match score between a profile and a gym

package gyms

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	baseScore          = 70.0
	maxGoalBonus       = 15.0
	goalBonusPerMatch  = 3.0
	maxPrefBonus       = 20.0
	prefBonusPerMatch  = 5.0
	factorWeight       = 20.0
	goalRatioThreshold = 0.5
	minAmenityWordLen  = 4
)

type goalCategory struct {
	name      string
	amenities []string
}

// goalCategories is ordered so resolution is deterministic.
var goalCategories = []goalCategory{
	{"build muscle", []string{"Free Weights", "Weight Training", "Personal Training", "Strength Equipment"}},
	{"weight loss", []string{"Cardio Equipment", "Classes", "Swimming Pool", "Group Training"}},
	{"improve strength", []string{"Free Weights", "Strength Equipment", "Weight Training", "Powerlifting"}},
	{"cardio", []string{"Cardio Equipment", "Swimming Pool", "Classes", "Running Track"}},
	{"flexibility", []string{"Yoga", "Pilates", "Stretching Area", "Classes"}},
	{"endurance", []string{"Cardio Equipment", "Swimming Pool", "Running Track", "Cycling"}},
	{"agility", []string{"Functional Training", "Classes", "Personal Training", "Open Space"}},
}

var fallbackAmenities = []string{"Classes", "Personal Training", "Equipment"}

// relatedAmenities resolves a goal to the union of every category whose
// name it contains or is contained by.
func relatedAmenities(goal string) []string {
	var related []string
	seen := make(map[string]bool)
	for _, cat := range goalCategories {
		if !strings.Contains(goal, cat.name) && !strings.Contains(cat.name, goal) {
			continue
		}
		for _, a := range cat.amenities {
			key := strings.ToLower(a)
			if !seen[key] {
				seen[key] = true
				related = append(related, key)
			}
		}
	}
	if len(related) == 0 {
		for _, a := range fallbackAmenities {
			related = append(related, strings.ToLower(a))
		}
	}
	return related
}

// Score computes how well gym suits profile.
func Score(profile Profile, gym *Gym) int {
	amenities := lowered(gym.Amenities)
	goals := lowered(profile.FitnessGoals)
	prefs := lowered(profile.GymPreferences)

	score := baseScore
	var matchingFactors, totalFactors float64

	if len(goals) > 0 && len(amenities) > 0 {
		matchedGoals, amenityMatches := 0, 0
		for _, goal := range goals {
			n := goalAmenityMatches(relatedAmenities(goal), amenities)
			if n > 0 {
				matchedGoals++
			}
			amenityMatches += n
		}

		ratio := float64(matchedGoals) / float64(len(goals))
		if ratio > goalRatioThreshold {
			matchingFactors += ratio
			totalFactors++
		}
		score += math.Min(maxGoalBonus, float64(amenityMatches)*goalBonusPerMatch)
	}

	if len(prefs) > 0 && len(amenities) > 0 {
		matches := 0
		for _, pref := range prefs {
			for _, amenity := range amenities {
				if preferenceMatches(pref, amenity) {
					matches++
				}
			}
		}

		matchingFactors += math.Min(1, float64(matches)/float64(len(prefs)))
		totalFactors++
		score += math.Min(maxPrefBonus, float64(matches)*prefBonusPerMatch)
	}

	if totalFactors > 0 {
		score += (matchingFactors / totalFactors) * factorWeight
	}

	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// goalAmenityMatches counts gym amenities related to the goal.
func goalAmenityMatches(related, amenities []string) int {
	n := 0
	for _, amenity := range amenities {
		for _, r := range related {
			if strings.Contains(amenity, r) || strings.Contains(r, amenity) {
				n++
				break
			}
		}
	}
	return n
}

func preferenceMatches(pref, amenity string) bool {
	if strings.Contains(pref, amenity) || strings.Contains(amenity, pref) {
		return true
	}
	for _, word := range strings.Fields(amenity) {
		if utf8.RuneCountInString(word) >= minAmenityWordLen && strings.Contains(pref, word) {
			return true
		}
	}
	return false
}

// lowered lower-cases and trims labels, dropping blanks.
func lowered(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			out = append(out, l)
		}
	}
	return out
}
