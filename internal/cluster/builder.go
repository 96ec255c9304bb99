// Package cluster groups scored keywords into pillar/supporting topic
// clusters by lexical root.
package cluster

import (
	"sort"
	"strings"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/lexicon"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
)

// DefaultMinSize is the smallest group that forms a cluster.
const DefaultMinSize = 2

// Cluster pairs a pillar keyword with its supporting keywords, ordered by
// descending opportunity.
type Cluster struct {
	Root       string
	Pillar     model.Keyword
	Supporting []model.Keyword
}

// Root extracts the lexical root of a phrase: lower-cased, stop words and
// words of length <= 2 dropped, first one or two surviving content words.
// Falls back to the lower-cased full phrase when nothing survives.
func Root(phrase string) string {
	lower := strings.ToLower(strings.TrimSpace(phrase))

	var content []string
	for _, word := range strings.Fields(lower) {
		if len(word) <= 2 || lexicon.IsStopWord(word) {
			continue
		}
		content = append(content, word)
		if len(content) == 2 {
			break
		}
	}

	if len(content) == 0 {
		return lower
	}
	return strings.Join(content, " ")
}

// Build groups keywords by identical root, discards groups smaller than
// minSize, and elects the highest-opportunity member of each surviving group
// as its pillar. The result is keyed by pillar ID; the keyword records
// themselves travel inside each Cluster.
func Build(keywords []model.Keyword, minSize int) map[string]Cluster {
	if minSize < 1 {
		minSize = DefaultMinSize
	}

	groups := make(map[string][]model.Keyword)
	for _, k := range keywords {
		root := Root(k.Phrase)
		groups[root] = append(groups[root], k)
	}

	clusters := make(map[string]Cluster)
	for root, members := range groups {
		if len(members) < minSize {
			continue
		}

		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Metrics.Opportunity > members[j].Metrics.Opportunity
		})

		clusters[members[0].ID] = Cluster{
			Root:       root,
			Pillar:     members[0],
			Supporting: members[1:],
		}
	}

	return clusters
}

// Summarize computes per-cluster aggregates: total estimated volume across
// pillar and supporting keywords, integer-truncated mean difficulty, the
// distinct intents present, and size. Summaries are sorted by total volume,
// highest first.
func Summarize(clusters map[string]Cluster) []model.ClusterSummary {
	summaries := make([]model.ClusterSummary, 0, len(clusters))

	for _, c := range clusters {
		size := 1 + len(c.Supporting)
		totalVolume := c.Pillar.Metrics.SearchVolume
		totalDifficulty := c.Pillar.Metrics.Difficulty
		intentSet := map[model.Intent]struct{}{c.Pillar.Intent: {}}

		for _, k := range c.Supporting {
			totalVolume += k.Metrics.SearchVolume
			totalDifficulty += k.Metrics.Difficulty
			intentSet[k.Intent] = struct{}{}
		}

		intents := make([]model.Intent, 0, len(intentSet))
		for _, intent := range model.AllIntents() {
			if _, ok := intentSet[intent]; ok {
				intents = append(intents, intent)
			}
		}

		summaries = append(summaries, model.ClusterSummary{
			Root:          c.Root,
			Pillar:        c.Pillar,
			Supporting:    c.Supporting,
			TotalVolume:   totalVolume,
			AvgDifficulty: totalDifficulty / size,
			Intents:       intents,
			Size:          size,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalVolume > summaries[j].TotalVolume
	})

	return summaries
}
