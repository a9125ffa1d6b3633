package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/cryptofifo/loader"
)

func TestFileOrStdin(t *testing.T) {
	t.Run("stdin contents are loaded as CSV", func(t *testing.T) {
		f := &FileOrStdin{Filename: stdinName, Contents: []byte(sampleCSV)}
		assert.True(t, f.IsStdin())
		assert.Equal(t, stdinName, f.GetAbsoluteFilename())

		source, err := f.GetSourceContent()
		assert.NoError(t, err)
		assert.Equal(t, sampleCSV, string(source))

		txs, err := f.Load(context.Background(), loader.New())
		assert.NoError(t, err)
		assert.Equal(t, 5, len(txs))
	})

	t.Run("csv files provide source context", func(t *testing.T) {
		path := writeTemp(t, "trades.csv", sampleCSV)
		f := &FileOrStdin{Filename: path}
		assert.False(t, f.IsStdin())
		assert.True(t, filepath.IsAbs(f.GetAbsoluteFilename()))

		source, err := f.GetSourceContent()
		assert.NoError(t, err)
		assert.Equal(t, sampleCSV, string(source))

		txs, err := f.Load(context.Background(), loader.New())
		assert.NoError(t, err)
		assert.Equal(t, 5, len(txs))
	})

	t.Run("workbooks have no source context", func(t *testing.T) {
		f := &FileOrStdin{Filename: writeTemp(t, "trades.xlsx", "")}
		source, err := f.GetSourceContent()
		assert.NoError(t, err)
		assert.True(t, source == nil)
	})
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	printSuccess(&buf, "done")
	printWarning(&buf, "careful")
	printInfof(&buf, "%d files", 2)

	out := buf.String()
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "2 files")
}

func TestPromptYesNoWithoutTerminal(t *testing.T) {
	if isTerminal() {
		t.Skip("stdin is a terminal")
	}
	ok, err := promptYesNo("Overwrite?")
	assert.NoError(t, err)
	assert.False(t, ok)
}
