package model

// Filter is an immutable criteria set used to select a subset of keywords.
// Zero values mean "no constraint". Filters never mutate keywords.
type Filter struct {
	Region         string        `json:"region,omitempty"`
	Segment        string        `json:"segment,omitempty"`
	Category       string        `json:"category,omitempty"`
	Language       string        `json:"language,omitempty"`
	Intents        []Intent      `json:"intents,omitempty"`
	LengthClasses  []LengthClass `json:"length_classes,omitempty"`
	MinVolume      int           `json:"min_volume,omitempty"`
	MaxDifficulty  int           `json:"max_difficulty,omitempty"`
	MinOpportunity int           `json:"min_opportunity,omitempty"`
	VoiceOnly      bool          `json:"voice_only,omitempty"`
	AEOOnly        bool          `json:"aeo_only,omitempty"`
}

// Matches reports whether a keyword satisfies every set criterion.
func (f Filter) Matches(k Keyword) bool {
	if len(f.Intents) > 0 && !containsIntent(f.Intents, k.Intent) {
		return false
	}
	if len(f.LengthClasses) > 0 && !containsLength(f.LengthClasses, k.LengthClass) {
		return false
	}
	if f.MinVolume > 0 && k.Metrics.SearchVolume < f.MinVolume {
		return false
	}
	if f.MaxDifficulty > 0 && k.Metrics.Difficulty > f.MaxDifficulty {
		return false
	}
	if f.MinOpportunity > 0 && k.Metrics.Opportunity < f.MinOpportunity {
		return false
	}
	if f.VoiceOnly && !k.Metrics.VoiceFriendly {
		return false
	}
	if f.AEOOnly && !k.Metrics.AEOFriendly {
		return false
	}
	return true
}

func containsIntent(intents []Intent, intent Intent) bool {
	for _, i := range intents {
		if i == intent {
			return true
		}
	}
	return false
}

func containsLength(classes []LengthClass, class LengthClass) bool {
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}
