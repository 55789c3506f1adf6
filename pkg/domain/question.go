package domain

// Question is a single navigable node of a questionnaire.
// It is immutable once handed to the engine.
type Question struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	Text string `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`

	// Branches are evaluated in declared order; the first whose condition
	// holds and whose target is relevant wins.
	Branches []Branch `json:"branches,omitempty" yaml:"branches,omitempty" mapstructure:"branches"`

	// DefaultNext is used when no branch matches. Empty means "none", in
	// which case the next question in declaration order follows.
	DefaultNext string `json:"default_next,omitempty" yaml:"default_next,omitempty" mapstructure:"default_next"`

	// Relevance is a condition over answers/profile. Empty means always relevant.
	// It is evaluated without a current answer, so `answer` never resolves in it.
	Relevance string `json:"relevance,omitempty" yaml:"relevance,omitempty" mapstructure:"relevance"`

	// Priority orders questions for NextPriority (higher first).
	Priority int `json:"priority,omitempty" yaml:"priority,omitempty" mapstructure:"priority"`

	// Metadata allows for extensible key-value pairs (section, input type...).
	// The engine does not read it.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty" mapstructure:"metadata"`
}

// Branch routes to Target when Condition holds.
type Branch struct {
	// Condition is an expression such as "answer === 'under-18'".
	// If empty, the branch always matches.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty" mapstructure:"condition"`
	Target    string `json:"target" yaml:"target" mapstructure:"target"`
}
