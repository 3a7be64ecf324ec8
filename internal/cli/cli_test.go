package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/internal/config"
	"github.com/iw2rmb/richbridge/internal/store"
	"github.com/iw2rmb/richbridge/internal/watch"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func docFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	body := `[{"insert":"hi "},{"insert":"there","attributes":{"highlight":true}},{"insert":"\n"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "richbridge version test-version-1.0.0")
}

func TestExportCmd_HTML(t *testing.T) {
	out, err := run(t, "export", "--format", "html", docFile(t))
	require.NoError(t, err)
	assert.Equal(t,
		`<p>hi <strong class="highlight" role="button" tabindex="0">there</strong></p>`+"\n", out)
}

func TestExportCmd_JSON(t *testing.T) {
	out, err := run(t, "export", "--format", "json", docFile(t))
	require.NoError(t, err)
	d, err := delta.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "hi there\n", d.Text())
	assert.Contains(t, out, "\n  ", "output is indented")
}

func TestExportCmd_Markdown(t *testing.T) {
	out, err := run(t, "export", "--format", "markdown", docFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "hi **there**")
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	_, err := run(t, "export", "--format", "pdf", docFile(t))
	assert.ErrorContains(t, err, `unknown export format "pdf"`)
}

func TestWriteDocument_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := delta.Delta{}.Insert("a", delta.AttributeMap{"bold": true}).Insert("\n", nil)

	jsonPath := filepath.Join(dir, "doc.json")
	require.NoError(t, writeDocument(jsonPath, d))
	got, err := watch.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, got.Equal(d))

	txtPath := filepath.Join(dir, "doc.txt")
	require.NoError(t, writeDocument(txtPath, d))
	data, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data))
}

func TestLoadDocument(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	doc, err := loadDocument(ctx, filepath.Join(dir, "new.txt"), nil, config.StoreConfig{Document: "n"})
	require.NoError(t, err)
	assert.Equal(t, "n", doc.ID)
	assert.Equal(t, 0, doc.Content.Length())

	st, err := openStore(config.StoreConfig{Path: filepath.Join(dir, "db", "docs.db")})
	require.NoError(t, err)
	defer st.Close()
	_, err = st.Save(ctx, store.Document{
		ID:        "notes",
		Content:   delta.Delta{}.Insert("stored", nil),
		Selection: &buffer.Range{Index: 2},
	})
	require.NoError(t, err)

	doc, err = loadDocument(ctx, "", st, config.StoreConfig{Document: "notes"})
	require.NoError(t, err)
	assert.Equal(t, "stored", doc.Content.Text())
	assert.Equal(t, &buffer.Range{Index: 2}, doc.Selection)

	doc, err = loadDocument(ctx, "", st, config.StoreConfig{Document: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", doc.ID)
	assert.Equal(t, 0, doc.Content.Length())

	none, err := openStore(config.StoreConfig{})
	require.NoError(t, err)
	assert.Nil(t, none)
}
