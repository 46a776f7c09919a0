package insights

import (
	"sort"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

const maxListed = 3

// TopicScore is a topic's success ratio across the log
type TopicScore struct {
	Topic string  `json:"topic"`
	Score float64 `json:"score"`
}

type tally struct {
	attempts  int
	successes int
}

// WeakTopics ranks topics by success ratio, lowest first, and keeps the bottom
// three. Ties are broken by topic name.
func WeakTopics(log types.ActivityLog) []TopicScore {
	counts := make(map[string]*tally)
	for _, ev := range log {
		topic := ev.TopicOrDefault()
		tl, ok := counts[topic]
		if !ok {
			tl = &tally{}
			counts[topic] = tl
		}
		tl.attempts++
		if ev.Success {
			tl.successes++
		}
	}

	scores := make([]TopicScore, 0, len(counts))
	for topic, tl := range counts {
		scores = append(scores, TopicScore{
			Topic: topic,
			Score: float64(tl.successes) / float64(max(1, tl.attempts)),
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score < scores[j].Score
		}
		return scores[i].Topic < scores[j].Topic
	})

	if len(scores) > maxListed {
		scores = scores[:maxListed]
	}
	return scores
}
