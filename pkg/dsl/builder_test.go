package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DeclarationOrder(t *testing.T) {
	b := New()

	b.Add("age").
		Text("How old are you?").
		Branch("answer === 'under-18'", "guardian").
		Default("education")

	b.Add("education").
		Text("Highest education level?").
		Priority(2).
		Meta("section", "background")

	b.Add("guardian").
		Text("Guardian consent?").
		When("answers.age === 'under-18'")

	questions, err := b.Build().Load(context.Background())
	require.NoError(t, err)
	require.Len(t, questions, 3)

	assert.Equal(t, []string{"age", "education", "guardian"}, []string{questions[0].ID, questions[1].ID, questions[2].ID})
	assert.Equal(t, domain.Question{
		ID:          "age",
		Text:        "How old are you?",
		Branches:    []domain.Branch{{Condition: "answer === 'under-18'", Target: "guardian"}},
		DefaultNext: "education",
	}, questions[0])
	assert.Equal(t, 2, questions[1].Priority)
	assert.Equal(t, "background", questions[1].Metadata["section"])
	assert.Equal(t, "answers.age === 'under-18'", questions[2].Relevance)
}

func TestBuilder_AddExistingKeepsPosition(t *testing.T) {
	b := New()
	b.Add("a").Text("first")
	b.Add("b")
	b.Add("a").Go("b")

	questions := b.Questions()
	require.Len(t, questions, 2)
	assert.Equal(t, "a", questions[0].ID)
	assert.Equal(t, "first", questions[0].Text)
	assert.Equal(t, []domain.Branch{{Target: "b"}}, questions[0].Branches)
}

func TestBuilder_Chaining(t *testing.T) {
	b := New()
	b.Add("a").Go("b").
		Add("b").Default("c").
		Add("c").Terminal()

	questions := b.Questions()
	require.Len(t, questions, 3)
	assert.Equal(t, "c", questions[1].DefaultNext)
	assert.Empty(t, questions[2].Branches)
}

func TestQuestionBuilder_BuildReturnsCopy(t *testing.T) {
	b := New()
	qb := b.Add("a").Go("b").Meta("k", "v")

	built := qb.Build()
	built.Branches[0].Target = "changed"
	built.Metadata["k"] = "changed"

	again := qb.Build()
	assert.Equal(t, "b", again.Branches[0].Target)
	assert.Equal(t, "v", again.Metadata["k"])
}
