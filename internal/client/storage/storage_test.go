package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SetGetRemove(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	_, err := s.Get(KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(KeyCart, `[]`))
	require.NoError(t, s.Set(KeyToken, "tok"))

	v, err := s.Get(KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Remove(KeyToken))
	_, err = s.Get(KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)

	//別インスタンスからも読める
	v, err = NewFileStore(s.path).Get(KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)
}

func TestFileStore_BrokenFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewFileStore(path)
	_, err := s.Get(KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)

	//書き込むと作り直される
	require.NoError(t, s.Set(KeyUser, `{"id":"u-1"}`))
	v, err := s.Get(KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u-1"}`, v)
}

func TestFileStore_ReadErrorKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStore(path)
	require.NoError(t, s.Set(KeyToken, "tok"))
	require.NoError(t, s.Set(KeyUser, `{"id":"u-1"}`))

	ioErr := errors.New("input/output error")
	s.readFile = func(string) ([]byte, error) { return nil, ioErr }
	assert.ErrorIs(t, s.Set(KeyCart, `[]`), ioErr)
	assert.ErrorIs(t, s.Remove(KeyToken), ioErr)

	//ファイルはそのまま
	s.readFile = os.ReadFile
	v, err := s.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
	v, err = s.Get(KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u-1"}`, v)
	_, err = s.Get(KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)
}
