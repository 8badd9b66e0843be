package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := newError(KindNotFound, nil, "account %q not found", "42")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, `account "42" not found`, err.Error())

	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := newError(KindIO, cause, "saving accounts")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "saving accounts: disk full", err.Error())
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "internal", KindOf(nil).String())
}

func TestKindStrings(t *testing.T) {
	seen := map[string]bool{}
	for k := KindInternal; k <= KindParse; k++ {
		s := k.String()
		assert.False(t, seen[s], "duplicate kind name %s", s)
		seen[s] = true
	}
}
