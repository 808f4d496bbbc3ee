package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnknownToken(t *testing.T) {
	t.Parallel()

	s := New()
	_, err := s.Resolve(uuid.New())
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestCreateResolveRoundTrip(t *testing.T) {
	t.Parallel()

	s := New()
	token := s.Create("acct-1")

	got, err := s.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", got)
}

func TestTokensAreUniquePerLogin(t *testing.T) {
	t.Parallel()

	s := New()
	t1 := s.Create("acct-1")
	t2 := s.Create("acct-1")

	assert.NotEqual(t, t1, t2)
	assert.Equal(t, 2, s.Len())

	// Both tokens stay valid; there is no revocation.
	for _, tok := range []uuid.UUID{t1, t2} {
		got, err := s.Resolve(tok)
		require.NoError(t, err)
		assert.Equal(t, "acct-1", got)
	}
}

func TestConcurrentLoginsAndLookups(t *testing.T) {
	t.Parallel()

	s := New()
	const logins = 64

	var wg sync.WaitGroup
	tokens := make([]uuid.UUID, logins)
	for i := 0; i < logins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = s.Create("acct-1")
			// interleave lookups with inserts
			_, _ = s.Resolve(tokens[i])
		}(i)
	}
	wg.Wait()

	require.Equal(t, logins, s.Len())
	for _, tok := range tokens {
		got, err := s.Resolve(tok)
		require.NoError(t, err)
		assert.Equal(t, "acct-1", got)
	}
}
