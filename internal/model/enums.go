package model

// State is the processing lifecycle of an interview.
type State string

const (
	StateNotStarted State = "not_started"
	StatePending    State = "pending"
	StateFinished   State = "finished"
)

var States = []State{StateNotStarted, StatePending, StateFinished}

func (s State) Valid() bool {
	for _, v := range States {
		if s == v {
			return true
		}
	}
	return false
}

// Category classifies questions and interviews. It is always set explicitly.
type Category string

const (
	CategoryTechnical    Category = "technical"
	CategoryBehavioral   Category = "behavioral"
	CategorySystemDesign Category = "system_design"
	CategoryLeadership   Category = "leadership"
	CategoryCoding       Category = "coding"
	CategoryOther        Category = "other"
)

var Categories = []Category{
	CategoryTechnical,
	CategoryBehavioral,
	CategorySystemDesign,
	CategoryLeadership,
	CategoryCoding,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Language is a programming language tag. The zero value means unset.
type Language string

var Languages = []Language{
	"go", "python", "javascript", "typescript", "java", "csharp", "cpp",
	"ruby", "rust", "kotlin", "swift", "php", "sql", "other",
}

func (l Language) Valid() bool {
	if l == "" {
		return true
	}
	for _, v := range Languages {
		if l == v {
			return true
		}
	}
	return false
}

// Plan is a subscription tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPro
}

// Ptr returns a pointer to v. Handy when building patches.
func Ptr[T any](v T) *T {
	return &v
}
