package correlation

import "github.com/sergiomunoz/opportunity-pipeline/internal/types"

// Stage is the derived lifecycle position of an opportunity. It is never
// stored or transitioned procedurally: it is recomputed from which artifacts
// are present every time a record is built.
type Stage string

// Stages in pipeline order. Fetched and Filtered exist for completeness but
// never appear in correlated output: correlation is gated on extracted
// opportunities, so every emitted record starts at StageExtracted. Email-level
// evidence is carried in the record's Email field instead.
const (
	StageFetched   Stage = "fetched"
	StageFiltered  Stage = "filtered"
	StageExtracted Stage = "extracted"
	StageAnalyzed  Stage = "analyzed"
	StageMatched   Stage = "matched"
	StageTailored  Stage = "tailored"
	StageComposed  Stage = "composed"
	StageReplied   Stage = "replied"
)

// StageOrder lists every stage from earliest to latest, used for report
// ordering and stage-name validation.
var StageOrder = []Stage{
	StageFetched,
	StageFiltered,
	StageExtracted,
	StageAnalyzed,
	StageMatched,
	StageTailored,
	StageComposed,
	StageReplied,
}

// DeriveStage computes the lifecycle stage from artifact presence alone,
// checking the highest stage first and returning the first one with
// supporting evidence:
//
//   - replied: a reply result exists with status sent or dry_run. A failed
//     send never advances the lifecycle.
//   - composed: a draft exists, regardless of any send result.
//   - tailored: a tailoring report exists. Tailoring is evaluated
//     independently of matching; a well-formed pipeline attaches both but
//     nothing here assumes it.
//   - matched: a match result exists.
//   - extracted: the floor for every record reaching correlated output.
//
// replyStatus is the empty string when no reply result exists.
func DeriveStage(hasMatch, hasTailoring, hasDraft bool, replyStatus types.ReplyStatus) Stage {
	switch {
	case replyStatus == types.ReplySent || replyStatus == types.ReplyDryRun:
		return StageReplied
	case hasDraft:
		return StageComposed
	case hasTailoring:
		return StageTailored
	case hasMatch:
		return StageMatched
	default:
		return StageExtracted
	}
}

// StageAtLeast reports whether s has reached minStage in pipeline order.
// Unknown stages never satisfy any minimum.
func StageAtLeast(s, minStage Stage) bool {
	si, mi := stageIndex(s), stageIndex(minStage)
	return si >= 0 && mi >= 0 && si >= mi
}

func stageIndex(s Stage) int {
	for i, stage := range StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// ValidStage reports whether s names a known stage.
func ValidStage(s string) bool {
	for _, stage := range StageOrder {
		if Stage(s) == stage {
			return true
		}
	}
	return false
}
