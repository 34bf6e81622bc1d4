package journalcrop

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStore(t *testing.T) {
	store := NewDirStore(filepath.Join(t.TempDir(), "第5期 数据管理"))
	assert.NoDirExists(t, store.Dir(), "created on first save")

	require.NoError(t, store.Save("图1 系统架构", image.NewRGBA(image.Rect(0, 0, 4, 2))))
	require.NoError(t, store.Save("图1 系统架构", image.NewRGBA(image.Rect(0, 0, 8, 3))))

	f, err := os.Open(store.Path("图1 系统架构"))
	require.NoError(t, err)
	img, err := png.Decode(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 3), img.Bounds(), "second save replaces the first")

	require.NoError(t, store.Remove("图1 系统架构"))
	assert.NoFileExists(t, store.Path("图1 系统架构"))
	assert.NoError(t, store.Remove("图1 系统架构"), "missing file is not an error")
}
