// Package kwmetrics derives the heuristic keyword metrics: volume,
// difficulty, CPC competition, estimated CPC, CTR potential, the voice/AEO
// flags, and the composite opportunity score. Compute is a pure function of
// its inputs; identical inputs always produce identical metrics.
package kwmetrics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/lexicon"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
)

// Volume clamps and curve constants.
const (
	minVolume     = 10
	maxVolume     = 2_000_000
	volumeBase    = 150_000
	volumeDecay   = 0.2
	maxRank       = 30
	localBoost    = 1.3
	// NeutralRank is the rank signal for phrases that didn't come from
	// autocomplete.
	NeutralRank = 15
)

// Difficulty constants.
const (
	minDifficulty      = 3
	maxDifficulty      = 97
	volumePressure     = 0.25
	longPhraseRelief   = 15
	commercialPressure = 8
)

// CTR constants.
const (
	minCTR        = 0.02
	maxCTR        = 0.50
	difficultyDrag = 0.002
)

// Input carries everything Compute needs. TotalSuggestions bounds the
// neutral rank when the rank signal is missing (negative).
type Input struct {
	Trend            model.TrendSnapshot
	Phrase           string
	Intent           model.Intent
	LengthClass      model.LengthClass
	AutocompleteRank int
	TotalSuggestions int
}

// Compute derives the full metrics record from upstream signals. No
// randomness, no hidden state.
func Compute(in Input) model.Metrics {
	volume := estimateVolume(in)
	difficulty := estimateDifficulty(in.Phrase, in.Intent, in.LengthClass, volume)
	competition := estimateCompetition(in.Phrase, in.Intent)

	return model.Metrics{
		SearchVolume:   volume,
		Difficulty:     difficulty,
		CPCCompetition: competition,
		EstimatedCPC:   estimateCPC(in.Intent, competition),
		CTRPotential:   estimateCTR(in.Intent, difficulty),
		Trend:          in.Trend.Direction,
		VoiceFriendly:  isVoiceFriendly(in.Intent, in.LengthClass),
		AEOFriendly:    isAEOFriendly(in.Intent),
		Opportunity:    opportunityScore(in.Intent, in.LengthClass, volume, difficulty),
	}
}

// estimateVolume follows an exponential-decay curve over autocomplete rank
// (rank 0 highest, rank 30+ floor), scaled by length class, trend interest,
// and a local/seasonal boost.
func estimateVolume(in Input) int {
	rank := in.AutocompleteRank
	if rank < 0 {
		rank = NeutralRank
		if in.TotalSuggestions > 0 && in.TotalSuggestions/2 < rank {
			rank = in.TotalSuggestions / 2
		}
	}
	if rank > maxRank {
		rank = maxRank
	}

	volume := volumeBase * math.Exp(-volumeDecay*float64(rank))
	volume *= lengthMultiplier(in.LengthClass)
	volume *= 0.5 + float64(in.Trend.Interest)/100
	if lexicon.HasLocalSignal(in.Phrase) {
		volume *= localBoost
	}

	return clampInt(int(volume), minVolume, maxVolume)
}

func lengthMultiplier(class model.LengthClass) float64 {
	switch class {
	case model.LengthShort:
		return 3.0
	case model.LengthMedium:
		return 1.0
	default:
		return 0.15
	}
}

func estimateDifficulty(phrase string, intent model.Intent, class model.LengthClass, volume int) int {
	difficulty := difficultyBase(class)
	difficulty += volumePressure * volumeLogScore(volume)
	difficulty += float64(intentDifficultyAdd(intent))
	if model.WordCount(phrase) > 6 {
		difficulty -= longPhraseRelief
	}
	if lexicon.HasCommercialSignal(phrase) {
		difficulty += commercialPressure
	}

	return clampInt(int(difficulty), minDifficulty, maxDifficulty)
}

func difficultyBase(class model.LengthClass) float64 {
	switch class {
	case model.LengthShort:
		return 70
	case model.LengthMedium:
		return 45
	default:
		return 20
	}
}

func intentDifficultyAdd(intent model.Intent) int {
	switch intent {
	case model.IntentTransactional:
		return 10
	case model.IntentCommercial:
		return 7
	case model.IntentNavigational:
		return 5
	default:
		return 0
	}
}

func estimateCompetition(phrase string, intent model.Intent) int {
	competition := competitionBase(intent)
	if lexicon.HasCommercialSignal(phrase) {
		competition += 15
	}
	if lexicon.HasPriceSignal(phrase) {
		competition += 10
	}

	return clampInt(competition, 1, 99)
}

func competitionBase(intent model.Intent) int {
	switch intent {
	case model.IntentTransactional:
		return 65
	case model.IntentCommercial:
		return 50
	case model.IntentNavigational:
		return 35
	default:
		return 15
	}
}

// estimateCPC interpolates within the intent's USD range using competition
// as the fraction, rounded to cents.
func estimateCPC(intent model.Intent, competition int) decimal.Decimal {
	low, high := cpcRange(intent)
	cpc := low + (high-low)*float64(competition)/100

	return decimal.NewFromFloat(cpc).Round(2)
}

func cpcRange(intent model.Intent) (low, high float64) {
	switch intent {
	case model.IntentTransactional:
		return 2.00, 15.00
	case model.IntentCommercial:
		return 1.00, 8.00
	case model.IntentNavigational:
		return 0.30, 2.00
	default:
		return 0.10, 1.00
	}
}

func estimateCTR(intent model.Intent, difficulty int) float64 {
	ctr := ctrBase(intent) - float64(difficulty)*difficultyDrag
	return clampFloat(ctr, minCTR, maxCTR)
}

func ctrBase(intent model.Intent) float64 {
	switch intent {
	case model.IntentInformational:
		return 0.35
	case model.IntentNavigational:
		return 0.25
	case model.IntentCommercial:
		return 0.15
	default:
		return 0.10
	}
}

// isVoiceFriendly: conversational long-tail phrases with informational or
// navigational intent suit voice queries.
func isVoiceFriendly(intent model.Intent, class model.LengthClass) bool {
	if class != model.LengthLong {
		return false
	}
	return intent == model.IntentInformational || intent == model.IntentNavigational
}

// isAEOFriendly: informational and commercial phrases suit answer-engine
// placements.
func isAEOFriendly(intent model.Intent) bool {
	return intent == model.IntentInformational || intent == model.IntentCommercial
}

func opportunityScore(intent model.Intent, class model.LengthClass, volume, difficulty int) int {
	score := volumeLogScore(volume)*0.5 +
		intentCPCMultiplier(intent)*5 +
		float64(lengthBonus(class)) -
		float64(difficulty)*0.4

	return clampInt(int(score), 0, 100)
}

// volumeLogScore maps volume onto 0-100 against the 2M ceiling.
func volumeLogScore(volume int) float64 {
	if volume < 1 {
		volume = 1
	}
	score := 100 * math.Log(float64(volume)) / math.Log(maxVolume)
	return clampFloat(score, 0, 100)
}

func intentCPCMultiplier(intent model.Intent) float64 {
	switch intent {
	case model.IntentTransactional:
		return 5.0
	case model.IntentCommercial:
		return 3.0
	case model.IntentNavigational:
		return 1.5
	default:
		return 1.0
	}
}

func lengthBonus(class model.LengthClass) int {
	switch class {
	case model.LengthLong:
		return 20
	case model.LengthMedium:
		return 10
	default:
		return 0
	}
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func clampFloat(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
