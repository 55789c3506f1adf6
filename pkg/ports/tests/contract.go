package tests

import (
	"context"
	"testing"

	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/aretw0/quizpath/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// QuestionLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.QuestionLoader.
// want lists the questions the adapter was seeded with, in the order it must return them.
func QuestionLoaderContractTest(t *testing.T, loader ports.QuestionLoader, want []domain.Question) {
	t.Helper()

	t.Run("Load_Order", func(t *testing.T) {
		got, err := loader.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, got, len(want))

		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID, "question %d", i)
		}
	})

	t.Run("Load_Content", func(t *testing.T) {
		got, err := loader.Load(context.Background())
		require.NoError(t, err)

		for i := range want {
			assert.Equal(t, want[i].Text, got[i].Text, "text of %s", want[i].ID)
			assert.Equal(t, want[i].Branches, got[i].Branches, "branches of %s", want[i].ID)
			assert.Equal(t, want[i].DefaultNext, got[i].DefaultNext, "default of %s", want[i].ID)
			assert.Equal(t, want[i].Relevance, got[i].Relevance, "relevance of %s", want[i].ID)
			assert.Equal(t, want[i].Priority, got[i].Priority, "priority of %s", want[i].ID)
		}
	})

	t.Run("Load_Repeatable", func(t *testing.T) {
		first, err := loader.Load(context.Background())
		require.NoError(t, err)
		second, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Load_CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := loader.Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
