package phase

import (
	"errors"
	"fmt"
)

// Phase identifies a stage of the development workflow.
type Phase string

const (
	Design      Phase = "design"
	Development Phase = "development"
	Test        Phase = "test"
)

// ErrInvalidPhase is matched by every InvalidPhaseError via errors.Is.
var ErrInvalidPhase = errors.New("invalid process phase")

// InvalidPhaseError reports a phase identifier that is not in the registry.
type InvalidPhaseError struct {
	Phase string
}

func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("invalid process phase: %s", e.Phase)
}

func (e *InvalidPhaseError) Is(target error) bool {
	return target == ErrInvalidPhase
}

// Directory describes one document directory within a phase.
// An empty Path means the base path itself.
type Directory struct {
	Name string // Logical name reported on every document (e.g. "general-rules")
	Path string // Path relative to the base path
}

// Definition is the ordered directory list for one phase.
type Definition struct {
	Phase       Phase
	Description string
	Directories []Directory
}

var (
	generalRules     = Directory{Name: "general-rules", Path: ""}
	designRules      = Directory{Name: "design-rules", Path: "design-rules"}
	developmentRules = Directory{Name: "development-rules", Path: "development-rules"}
	testRules        = Directory{Name: "test-rules", Path: "test-rules"}
)

// definitions is listed in workflow order. Each phase repeats the previous
// phase's directories before adding its own; keep them in sync by hand.
var definitions = []Definition{
	{
		Phase:       Design,
		Description: "Design phase documents including general rules (rulus.md) and design-rules directory",
		Directories: []Directory{generalRules, designRules},
	},
	{
		Phase:       Development,
		Description: "Development phase documents including general rules (rulus.md), design-rules, and development-rules directories",
		Directories: []Directory{generalRules, designRules, developmentRules},
	},
	{
		Phase:       Test,
		Description: "Test phase documents including general rules (rulus.md), design-rules, development-rules, and test-rules directories",
		Directories: []Directory{generalRules, designRules, developmentRules, testRules},
	},
}

// DirectoriesFor returns the ordered directory list of a phase.
// The returned slice is a copy and may be modified by the caller.
func DirectoriesFor(p Phase) ([]Directory, error) {
	def, ok := lookup(p)
	if !ok {
		return nil, &InvalidPhaseError{Phase: string(p)}
	}
	dirs := make([]Directory, len(def.Directories))
	copy(dirs, def.Directories)
	return dirs, nil
}

// Known returns every phase in workflow order.
func Known() []Phase {
	phases := make([]Phase, 0, len(definitions))
	for _, def := range definitions {
		phases = append(phases, def.Phase)
	}
	return phases
}

// IsValid reports whether candidate exactly matches a known phase. Case-sensitive.
func IsValid(candidate string) bool {
	_, ok := lookup(Phase(candidate))
	return ok
}

// Parse converts a string into a Phase.
func Parse(candidate string) (Phase, error) {
	if !IsValid(candidate) {
		return "", &InvalidPhaseError{Phase: candidate}
	}
	return Phase(candidate), nil
}

// Describe returns the human-readable description of a phase, or "" if unknown.
func Describe(p Phase) string {
	def, ok := lookup(p)
	if !ok {
		return ""
	}
	return def.Description
}

func lookup(p Phase) (Definition, bool) {
	for _, def := range definitions {
		if def.Phase == p {
			return def, true
		}
	}
	return Definition{}, false
}
