package cli

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandError(t *testing.T) {
	t.Run("carries exit code", func(t *testing.T) {
		err := NewCommandError(exitProblems)
		assert.Equal(t, 1, err.ExitCode())
		assert.EqualError(t, err, "command failed with exit code 1")
	})

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("check: %w", NewCommandError(2))
		var cmdErr *CommandError
		assert.True(t, stdErrors.As(wrapped, &cmdErr))
		assert.Equal(t, 2, cmdErr.ExitCode())
	})
}

func TestFlattenSchemaError(t *testing.T) {
	g := testGlobals()
	s, err := g.start(context.Background(), &bytes.Buffer{}, "check")
	assert.NoError(t, err)

	_, err = g.run(s.ctx, &FileOrStdin{Filename: stdinName, Contents: []byte("Date,Type\n")})
	assert.Error(t, err)
	assert.Equal(t, 1, len(flatten(err)))
}
