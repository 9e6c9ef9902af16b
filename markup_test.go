package forumcrawl_test

import (
	"testing"

	"github.com/fwojciec/forumcrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostStub_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts stub with link", func(t *testing.T) {
		t.Parallel()

		stub := forumcrawl.PostStub{Name: "x", URL: "https://forum.example/x"}

		assert.NoError(t, stub.Validate())
	})

	t.Run("rejects stub without link", func(t *testing.T) {
		t.Parallel()

		stub := forumcrawl.PostStub{Name: "x"}

		err := stub.Validate()
		require.Error(t, err)
		assert.Equal(t, forumcrawl.EINVALID, forumcrawl.ErrorCode(err))
	})
}

func TestPostPage_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts parallel lists", func(t *testing.T) {
		t.Parallel()

		page := forumcrawl.PostPage{
			Published: []string{"a", "b"},
			Contents:  []forumcrawl.PostContent{{Text: "1"}, {Text: "2"}},
		}

		assert.NoError(t, page.Validate())
	})

	t.Run("rejects three timestamps and two contents", func(t *testing.T) {
		t.Parallel()

		page := forumcrawl.PostPage{
			Published: []string{"a", "b", "c"},
			Contents:  []forumcrawl.PostContent{{Text: "1"}, {Text: "2"}},
		}

		err := page.Validate()
		require.Error(t, err)
		assert.Equal(t, forumcrawl.EMALFORMED, forumcrawl.ErrorCode(err))
	})
}

func TestTerminationSignal(t *testing.T) {
	t.Parallel()

	assert.True(t, forumcrawl.TerminationSignal.Terminate)
	assert.False(t, forumcrawl.PageItem("").Terminate, "a page item never doubles as the signal")
	assert.NotEqual(t, forumcrawl.TerminationSignal, forumcrawl.PageItem(""))
}
