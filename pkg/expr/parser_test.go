package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AST(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Node
	}{
		{
			name: "equality with answer",
			src:  "answer === 'under-18'",
			want: Equals{Left: Path{Root: RootAnswer}, Right: Literal{Value: "under-18"}},
		},
		{
			name: "inequality with recorded answer",
			src:  `answers.q2 !== "high-school"`,
			want: NotEquals{Left: Path{Root: RootAnswers, Segments: []string{"q2"}}, Right: Literal{Value: "high-school"}},
		},
		{
			name: "membership",
			src:  "answer.includes('business')",
			want: Includes{Target: Path{Root: RootAnswer}, Value: Literal{Value: "business"}},
		},
		{
			name: "hyphenated id",
			src:  "answers.q-business === true",
			want: Equals{Left: Path{Root: RootAnswers, Segments: []string{"q-business"}}, Right: Literal{Value: true}},
		},
		{
			name: "bracket segment",
			src:  `profile["home country"] === 'BR'`,
			want: Equals{Left: Path{Root: RootProfile, Segments: []string{"home country"}}, Right: Literal{Value: "BR"}},
		},
		{
			name: "number literal",
			src:  "profile.age === 42",
			want: Equals{Left: Path{Root: RootProfile, Segments: []string{"age"}}, Right: Literal{Value: float64(42)}},
		},
		{
			name: "negative number literal",
			src:  "answers.score === -1.5",
			want: Equals{Left: Path{Root: RootAnswers, Segments: []string{"score"}}, Right: Literal{Value: -1.5}},
		},
		{
			name: "and binds tighter than or",
			src:  "answer === 'a' || answer === 'b' && answer === 'c'",
			want: Or{
				Left: Equals{Left: Path{Root: RootAnswer}, Right: Literal{Value: "a"}},
				Right: And{
					Left:  Equals{Left: Path{Root: RootAnswer}, Right: Literal{Value: "b"}},
					Right: Equals{Left: Path{Root: RootAnswer}, Right: Literal{Value: "c"}},
				},
			},
		},
		{
			name: "grouping and negation",
			src:  "!(answer === 'a' || answer === 'b')",
			want: Not{Operand: Or{
				Left:  Equals{Left: Path{Root: RootAnswer}, Right: Literal{Value: "a"}},
				Right: Equals{Left: Path{Root: RootAnswer}, Right: Literal{Value: "b"}},
			}},
		},
		{
			name: "array guard",
			src:  "Array.isArray(answers.q10) && answers.q10.includes('business')",
			want: And{
				Left:  IsArray{Target: Path{Root: RootAnswers, Segments: []string{"q10"}}},
				Right: Includes{Target: Path{Root: RootAnswers, Segments: []string{"q10"}}, Value: Literal{Value: "business"}},
			},
		},
		{
			name: "bare boolean",
			src:  "true",
			want: Const{Value: true},
		},
		{
			name: "userProfile alias",
			src:  "userProfile.country === 'CA'",
			want: Equals{Left: Path{Root: RootProfile, Segments: []string{"country"}}, Right: Literal{Value: "CA"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Root())
			assert.Equal(t, tt.src, e.Source())
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		token string
	}{
		{"empty", "   ", ""},
		{"loose equality", "answer == 'x'", "=="},
		{"loose inequality", "answer != 'x'", "!="},
		{"single ampersand", "answer === 'x' & answer === 'y'", "&"},
		{"relational operator", "profile.age > 18", ">"},
		{"unbalanced open", "(answer === 'x'", ""},
		{"unbalanced close", "answer === 'x')", ")"},
		{"unterminated string", "answer === 'x", "'x"},
		{"bare path", "answers.q1", ""},
		{"unknown root", "input === 'go'", "input"},
		{"dangling operator", "answer === 'x' &&", ""},
		{"unsupported Array call", "Array.from(answer)", "from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)

			var synErr *SyntaxError
			require.True(t, errors.As(err, &synErr), "expected SyntaxError, got %T", err)
			assert.Equal(t, tt.token, synErr.Token)
			assert.GreaterOrEqual(t, synErr.Pos, 0)
			assert.LessOrEqual(t, synErr.Pos, len(tt.src))
		})
	}
}

func TestParse_PositionPointsAtOffendingToken(t *testing.T) {
	_, err := Parse("answer === 'a' || answer = 'b'")
	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 25, synErr.Pos)
	assert.Contains(t, synErr.Error(), "position 25")
}

func TestExpression_Dependencies(t *testing.T) {
	e := MustParse("answers.q1 === 'a' || (answers.q3.includes('x') && answers.q1 !== 'b') || profile.q9 === 1")
	assert.Equal(t, []string{"q1", "q3"}, e.Dependencies())
	assert.False(t, e.ReadsAnswer())

	e = MustParse("answer === 'x'")
	assert.Empty(t, e.Dependencies())
	assert.True(t, e.ReadsAnswer())
}

func TestExpression_StringRoundTrip(t *testing.T) {
	sources := []string{
		"answer === 'under-18'",
		"!(answers['q 1'] !== 3) && Array.isArray(answer)",
		"profile.country.includes('BR') || false",
		`answer === 'C:\\dir' || answer === 'it\'s'`,
	}
	for _, src := range sources {
		e := MustParse(src)
		again, err := Parse(e.String())
		require.NoError(t, err, "re-parsing %q", e.String())
		assert.Equal(t, e.Root(), again.Root())
	}
}

func TestLiteral_StringEscapesBackslash(t *testing.T) {
	e := MustParse(`answer === 'C:\\dir'`)
	assert.Equal(t, Equals{Left: Path{Root: RootAnswer}, Right: Literal{Value: `C:\dir`}}, e.Root())
	assert.Equal(t, `'C:\\dir'`, Literal{Value: `C:\dir`}.String())

	again, err := Parse(e.String())
	require.NoError(t, err)
	assert.Equal(t, e.Root(), again.Root())
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("answer ==") })
}
