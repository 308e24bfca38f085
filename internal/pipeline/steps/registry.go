// Package steps provides stage definitions and dependency validation for the
// opportunity pipeline.
package steps

import (
	"fmt"
	"sort"
)

// Stage names, in pipeline order.
const (
	StageFetch     = "fetch"
	StageFilter    = "filter"
	StageExtract   = "extract"
	StageMatch     = "match"
	StageTailor    = "tailor"
	StageCompose   = "compose"
	StageSend      = "send"
	StageCorrelate = "correlate"
	StageTrack     = "track"
)

// StageDefinition defines a pipeline stage and the stages whose artifacts it
// consumes. Optional dependencies enrich the stage but do not block it.
type StageDefinition struct {
	Name         string
	Dependencies []string
	Optional     []string
}

// Registry holds every stage definition.
var Registry = map[string]StageDefinition{
	StageFetch: {
		Name: StageFetch,
	},
	StageFilter: {
		Name:         StageFilter,
		Dependencies: []string{StageFetch},
	},
	StageExtract: {
		Name:         StageExtract,
		Dependencies: []string{StageFilter},
	},
	StageMatch: {
		Name:         StageMatch,
		Dependencies: []string{StageExtract},
	},
	StageTailor: {
		Name:         StageTailor,
		Dependencies: []string{StageMatch},
	},
	StageCompose: {
		Name:         StageCompose,
		Dependencies: []string{StageMatch},
		Optional:     []string{StageTailor},
	},
	StageSend: {
		Name:         StageSend,
		Dependencies: []string{StageCompose},
	},
	StageCorrelate: {
		Name:         StageCorrelate,
		Dependencies: []string{StageExtract},
		Optional:     []string{StageMatch, StageTailor, StageCompose, StageSend},
	},
	StageTrack: {
		Name:         StageTrack,
		Dependencies: []string{StageCorrelate},
	},
}

// Order lists the stages in execution order.
var Order = []string{
	StageFetch,
	StageFilter,
	StageExtract,
	StageMatch,
	StageTailor,
	StageCompose,
	StageSend,
	StageCorrelate,
	StageTrack,
}

// Number returns the 1-based position of stage in Order, or 0 when the
// stage is unknown.
func Number(stage string) int {
	for i, name := range Order {
		if name == stage {
			return i + 1
		}
	}
	return 0
}

// Known reports whether name is a registered stage.
func Known(name string) bool {
	_, ok := Registry[name]
	return ok
}

// ValidateDependencies checks that every hard dependency of stage appears in
// the completed set.
func ValidateDependencies(stage string, completed map[string]bool) error {
	def, ok := Registry[stage]
	if !ok {
		return fmt.Errorf("unknown stage: %s", stage)
	}
	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("stage %s requires completed stages: %v", stage, missing)
	}
	return nil
}
