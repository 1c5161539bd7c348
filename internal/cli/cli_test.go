package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaustubhshukla9586/FinBuddy/internal/config"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestExportFailsOnMissingConfig(t *testing.T) {
	err := execute(t, "export", "transactions", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestExportFailsOnPlaceholderURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mongodb:
  uri: mongodb+srv://<username>:pass@<cluster>.example.net
`), 0o644))

	err := execute(t, "export", "bill-splits", "--config", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrPlaceholderURI)
}

func TestExportFailsWithoutURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	err := execute(t, "export", "transactions")
	assert.Error(t, err)
}

func TestMigrateRequiresDatabaseArg(t *testing.T) {
	err := execute(t, "migrate")
	assert.Error(t, err)
}
