package model

// ClusterSummary describes one topic cluster: a pillar keyword plus the
// supporting keywords sharing its lexical root, with aggregate figures.
// Summaries are built fresh each pipeline run and never persisted.
type ClusterSummary struct {
	Root          string    `json:"root"`
	Pillar        Keyword   `json:"pillar"`
	Supporting    []Keyword `json:"supporting"`
	TotalVolume   int       `json:"total_volume"`
	AvgDifficulty int       `json:"avg_difficulty"`
	Intents       []Intent  `json:"intents"`
	Size          int       `json:"size"`
}
