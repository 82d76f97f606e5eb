package tools

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/usd_geolocator/internal/geoxform"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("#usda 1.0\n"), 0o644))
	}
}

func TestGetDocumentsToProcess(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.usda", "a.USDA", "c.usd", "notes.txt", "sub/d.usda", "sub/deeper/e.usda")
	finder := NewStandardFileFinder()

	opts := geoxform.DefaultOptions()
	opts.Input = filepath.Join(dir, "b.usda")
	docs, err := finder.GetDocumentsToProcess(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{opts.Input}, docs)

	opts.Input = dir
	opts.FolderProcessing = true
	docs, err = finder.GetDocumentsToProcess(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.USDA"), filepath.Join(dir, "b.usda")}, docs)

	opts.Recursive = true
	docs, err = finder.GetDocumentsToProcess(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.USDA"),
		filepath.Join(dir, "b.usda"),
		filepath.Join(dir, "sub", "d.usda"),
		filepath.Join(dir, "sub", "deeper", "e.usda"),
	}, docs)

	opts.Input = filepath.Join(dir, "absent")
	_, err = finder.GetDocumentsToProcess(opts)
	assert.Error(t, err)
}

func TestLogOutput(t *testing.T) {
	var buf bytes.Buffer
	SetLoggerOutput(&buf)
	t.Cleanup(func() {
		SetLoggerOutput(os.Stderr)
		EnableLogger()
		EnableLoggerTimestamp()
	})

	DisableLoggerTimestamp()
	LogOutput("Processing document", "1/2")
	assert.Equal(t, "Processing document 1/2\n", buf.String())

	buf.Reset()
	EnableLoggerTimestamp()
	LogOutput("done")
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}\.\d{2}:\d{2}\.\d{3}\] done\n$`, buf.String())

	buf.Reset()
	DisableLogger()
	LogOutput("hidden")
	assert.Empty(t, buf.String())
}

func TestReadTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crs.wkt")
	require.NoError(t, os.WriteFile(path, []byte(`GEOGCS["x"]`), 0o644))

	content, ok, err := ReadTextFile(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `GEOGCS["x"]`, content)

	_, ok, err = ReadTextFile(dir)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = ReadTextFile(`PROJCS["inline"]`)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, IsDirectory(dir))
	assert.False(t, IsDirectory(path))
}

func TestFloatHelpers(t *testing.T) {
	assert.True(t, IsFloatEqual(1, 1+FloatMin/2))
	assert.False(t, IsFloatEqual(1, 1+FloatMin*2))
	assert.Equal(t, 0.0, ZeroIfNegligible(-1e-9))
	assert.False(t, math.Signbit(ZeroIfNegligible(math.Copysign(0, -1))))
	assert.Equal(t, 2.5, ZeroIfNegligible(2.5))
	assert.Equal(t, `{"a":1}`, FmtJSONString(map[string]int{"a": 1}))
	assert.Equal(t, "marshal data fail", FmtJSONString(math.NaN()))
}
