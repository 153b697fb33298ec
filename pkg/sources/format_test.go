package sources

import (
	"go/format"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFilesAreGofmtClean(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		src, err := os.ReadFile(name)
		require.NoError(t, err)

		formatted, err := format.Source(src)
		require.NoError(t, err, name)

		assert.Equal(t, string(formatted), string(src), "%s is not gofmt-formatted", name)
	}
}
