package loam

// QuestionMetadata represents the frontmatter of a question document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type QuestionMetadata struct {
	ID   string `json:"id" mapstructure:"id"`
	Text string `json:"text" mapstructure:"text"`

	// Order positions the question in the questionnaire. Documents are
	// sorted by order, then by id. Numbers may arrive as int, int64 or
	// json.Number depending on the serializer, hence any.
	Order any `json:"order" mapstructure:"order"`

	Branches    []LoaderBranch `json:"branches" mapstructure:"branches"`
	DefaultNext string         `json:"default_next" mapstructure:"default_next"`
	// Next is shorthand for default_next.
	Next string `json:"next" mapstructure:"next"`

	Relevance string `json:"relevance" mapstructure:"relevance"`
	Priority  any    `json:"priority" mapstructure:"priority"`

	// General Metadata, flattened to dotted keys.
	Metadata map[string]any `json:"metadata" mapstructure:"metadata"`
}

// LoaderBranch is a branch as written in frontmatter.
type LoaderBranch struct {
	Condition string `json:"condition" mapstructure:"condition"`
	Target    string `json:"target" mapstructure:"target"`
	// To is shorthand for target.
	To string `json:"to" mapstructure:"to"`
}
