package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_HashSource_Deterministic(t *testing.T) {
	as := assert.New(t)

	h1 := HashSource([]byte("(rule Expr (num))"))
	h2 := HashSource([]byte("(rule Expr (num))"))
	h3 := HashSource([]byte("(rule Expr (id))"))

	as.Equal(h1, h2)
	as.NotEqual(h1, h3)
	as.Len(h1, 64)
}

func Test_Load_MissingFileYieldsEmptyStore(t *testing.T) {
	as := assert.New(t)

	s, err := Load(filepath.Join(t.TempDir(), "nope.cache"))
	as.NoError(err)
	as.NotNil(s.Entries)
	as.Empty(s.Entries)
}

func Test_Put_Get_RoundTrip(t *testing.T) {
	as := assert.New(t)

	var s Store
	source := []byte("(rule Expr (num))")

	_, ok := s.Get(source)
	as.False(ok)

	runID, err := s.Put(source, "package main\n")
	as.NoError(err)
	as.NotEmpty(runID)

	entry, ok := s.Get(source)
	as.True(ok)
	as.Equal("package main\n", entry.Source)
	as.Equal(runID, entry.RunID)
	as.Equal(HashSource(source), entry.Hash)
}

func Test_Save_Load_RoundTrip(t *testing.T) {
	as := assert.New(t)

	var s Store
	source := []byte("(rule Expr (num))")
	_, err := s.Put(source, "package main\n\nfunc main() {}\n")
	as.NoError(err)

	path := filepath.Join(t.TempDir(), "gillnet.cache")
	as.NoError(Save(path, s))

	loaded, err := Load(path)
	as.NoError(err)

	entry, ok := loaded.Get(source)
	as.True(ok)
	as.Equal("package main\n\nfunc main() {}\n", entry.Source)
}

func Test_Load_EmptyFileYieldsEmptyStore(t *testing.T) {
	as := assert.New(t)

	path := filepath.Join(t.TempDir(), "empty.cache")
	as.NoError(os.WriteFile(path, nil, 0644))

	s, err := Load(path)
	as.NoError(err)
	as.NotNil(s.Entries)
	as.Empty(s.Entries)
}

func Test_Load_CorruptFileIsError(t *testing.T) {
	as := assert.New(t)

	path := filepath.Join(t.TempDir(), "corrupt.cache")
	as.NoError(os.WriteFile(path, []byte{0xff, 0x00, 0x01, 0x02}, 0644))

	_, err := Load(path)
	as.Error(err)
}
