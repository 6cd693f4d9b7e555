package firmware

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	s := NewStorage(t.TempDir(), zerolog.Nop())

	code := "// Firmware Version: 2.0\n#include <Arduino.h>\nvoid setup() {}\nvoid loop() {}\n"
	path, version, err := s.Write("device-001", code)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(version, "v"))
	assert.Equal(t, filepath.Join(s.Root(), "device-001", version+".cpp"), path)

	got, err := s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, code, got, "read-back must be byte-identical")
}

func TestRead_NotFound(t *testing.T) {
	s := NewStorage(t.TempDir(), zerolog.Nop())

	_, err := s.Read(filepath.Join(s.Root(), "device-001", "v9.cpp"))
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

// Rapid successive writes within the same second must still produce
// unique, strictly increasing version paths.
func TestWrite_RapidWritesUniqueVersions(t *testing.T) {
	s := NewStorage(t.TempDir(), zerolog.Nop())
	frozen := time.Date(2025, 11, 13, 14, 10, 16, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	seen := make(map[string]bool)
	var last string
	for i := 0; i < 5; i++ {
		path, version, err := s.Write("device-001", "code")
		require.NoError(t, err)
		assert.False(t, seen[path], "path %s issued twice", path)
		seen[path] = true
		assert.Greater(t, version, last, "versions must be strictly increasing")
		last = version
	}
}

func TestWrite_TokensIncreaseAcrossClockSteps(t *testing.T) {
	s := NewStorage(t.TempDir(), zerolog.Nop())
	now := time.Date(2025, 11, 13, 14, 10, 16, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, first, err := s.Write("device-001", "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, second, err := s.Write("device-001", "b")
	require.NoError(t, err)

	assert.Equal(t, "v20251113141016", first)
	assert.Equal(t, "v20251113141018", second)
}

func TestWrite_SeparateDevicesSeparateDirs(t *testing.T) {
	s := NewStorage(t.TempDir(), zerolog.Nop())

	pathA, _, err := s.Write("device-001", "a")
	require.NoError(t, err)
	pathB, _, err := s.Write("device-002", "b")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(s.Root(), "device-001"), filepath.Dir(pathA))
	assert.Equal(t, filepath.Join(s.Root(), "device-002"), filepath.Dir(pathB))

	gotA, err := s.Read(pathA)
	require.NoError(t, err)
	gotB, err := s.Read(pathB)
	require.NoError(t, err)
	assert.NotEqual(t, gotA, gotB)
}

func TestWrite_NeverOverwrites(t *testing.T) {
	s := NewStorage(t.TempDir(), zerolog.Nop())
	frozen := time.Date(2025, 11, 13, 14, 10, 16, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	pathA, _, err := s.Write("device-001", "first")
	require.NoError(t, err)
	pathB, _, err := s.Write("device-001", "second")
	require.NoError(t, err)
	require.NotEqual(t, pathA, pathB)

	got, err := s.Read(pathA)
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}
