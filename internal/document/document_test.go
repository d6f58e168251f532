package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDocument(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}

func TestLoadPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("  The ICT department\toffers  B.Tech.\n"), 0o644))
	text, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "The ICT department offers B.Tech.", text)
}

func TestLoadEmptyTextIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \t \r "), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrNoExtractableText)
}

func TestSanitizeDropsControlCharacters(t *testing.T) {
	assert.Equal(t, "a b", sanitize("a \x00\x07  b"))
}
