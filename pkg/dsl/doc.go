/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing questionnaires.

It allows developers to declare questions, branches and relevance rules using a fluent
builder instead of YAML, JSON or Markdown files. This is particularly useful for
generated questionnaires and unit tests.

Example usage:

	b := dsl.New()

	b.Add("age").
		Text("How old are you?").
		Branch("answer === 'under-18'", "guardian").
		Default("education")

	b.Add("education").
		Text("Highest education level?")

	b.Add("guardian").
		Text("Guardian consent?").
		When("answers.age === 'under-18'")

	// The loader satisfies ports.QuestionLoader.
	eng, err := quizpath.New("", quizpath.WithLoader(b.Build()))
*/
package dsl
