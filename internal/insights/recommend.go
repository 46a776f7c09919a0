package insights

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

const recommendedPlatform = "leetcode"

// Recommendation is a practice problem suggested for a struggling topic
type Recommendation struct {
	Platform string `json:"platform"`
	ID       string `json:"id"`
	Title    string `json:"title"`
}

// Recommend weights every topic by its number of failures and suggests practice
// for the three heaviest. Topics with equal weight are ordered reverse
// alphabetically.
func Recommend(log types.ActivityLog) []Recommendation {
	weights := make(map[string]float64)
	for _, ev := range log {
		weights[ev.TopicOrDefault()] += 1 - ev.Success.Float()
	}
	if len(weights) == 0 {
		return []Recommendation{}
	}

	topics := make([]string, 0, len(weights))
	for topic := range weights {
		topics = append(topics, topic)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(topics)))
	sort.SliceStable(topics, func(i, j int) bool {
		return weights[topics[i]] > weights[topics[j]]
	})

	if len(topics) > maxListed {
		topics = topics[:maxListed]
	}
	recs := make([]Recommendation, len(topics))
	for i, topic := range topics {
		recs[i] = Recommendation{
			Platform: recommendedPlatform,
			ID:       topic + "-practice",
			Title:    "Practice " + titleCase(topic),
		}
	}
	return recs
}

// titleCase upper-cases the first letter of every run of letters and lower-cases
// the rest, so "two_pointers" becomes "Two_Pointers"
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if inWord {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			inWord = true
			continue
		}
		b.WriteRune(r)
		inWord = false
	}
	return b.String()
}
