package mission

import "math"

// MissionProgress is derived from a mission's key results and never persisted.
type MissionProgress struct {
	MissionID           string `json:"mission_id"`
	ProgressPercentage  int    `json:"progress_percentage"`
	CompletedKeyResults int    `json:"completed_key_results"`
	TotalKeyResults     int    `json:"total_key_results"`
}

// CompletionRule yields the share of a key result's weight that counts as done, in [0, 1].
type CompletionRule interface {
	Ratio(kr KeyResult) float64
}

// QuantitativeRule credits current/target, and the full weight once the target is reached.
// A missing or non-positive target earns nothing.
type QuantitativeRule struct{}

func (QuantitativeRule) Ratio(kr KeyResult) float64 {
	if kr.TargetValue == nil || *kr.TargetValue <= 0 || kr.CurrentValue == nil {
		return 0
	}
	current, target := *kr.CurrentValue, *kr.TargetValue
	if current >= target {
		return 1
	}
	if current <= 0 {
		return 0
	}
	return current / target
}

// QualitativeRule is binary.
type QualitativeRule struct{}

func (QualitativeRule) Ratio(kr KeyResult) float64 {
	if kr.IsCompleted {
		return 1
	}
	return 0
}

type zeroRule struct{}

func (zeroRule) Ratio(KeyResult) float64 { return 0 }

var completionRules = map[KeyResultType]CompletionRule{
	KeyResultQuantitative: QuantitativeRule{},
	KeyResultQualitative:  QualitativeRule{},
}

// RuleFor returns the completion rule of t. Unknown types earn no credit.
func RuleFor(t KeyResultType) CompletionRule {
	if rule, ok := completionRules[t]; ok {
		return rule
	}
	return zeroRule{}
}

// EffectiveWeight treats an absent or non-positive weight as 1.
func EffectiveWeight(kr KeyResult) int {
	if kr.Weight < MinWeight {
		return 1
	}
	return kr.Weight
}

// CalculateProgress returns the weighted completion of a mission's key results.
func CalculateProgress(missionID string, keyResults []KeyResult) MissionProgress {
	progress := MissionProgress{
		MissionID:       missionID,
		TotalKeyResults: len(keyResults),
	}

	var totalWeight, completedWeight float64
	for _, kr := range keyResults {
		weight := float64(EffectiveWeight(kr))
		ratio := RuleFor(kr.Type).Ratio(kr)

		totalWeight += weight
		completedWeight += weight * ratio
		if ratio >= 1 {
			progress.CompletedKeyResults++
		}
	}

	if totalWeight > 0 {
		progress.ProgressPercentage = int(math.Round(100 * completedWeight / totalWeight))
	}
	return progress
}

// KeyResultPercentage is the 0-100 figure shown next to a single key result.
func KeyResultPercentage(kr KeyResult) int {
	if kr.Type == KeyResultQuantitative && kr.TargetValue != nil && *kr.TargetValue > 0 {
		current := 0.0
		if kr.CurrentValue != nil {
			current = *kr.CurrentValue
		}
		pct := int(math.Round(100 * current / *kr.TargetValue))
		return max(0, min(100, pct))
	}
	if kr.IsCompleted {
		return 100
	}
	return 0
}

// DeriveKeyResultStatus reports the status implied by the key result's progress.
// An at_risk flag set by a person is kept until the key result completes.
func DeriveKeyResultStatus(kr KeyResult) KeyResultStatus {
	ratio := RuleFor(kr.Type).Ratio(kr)
	switch {
	case ratio >= 1:
		return KeyResultCompleted
	case kr.Status == KeyResultAtRisk:
		return KeyResultAtRisk
	case ratio > 0:
		return KeyResultInProgress
	default:
		return KeyResultNotStarted
	}
}
