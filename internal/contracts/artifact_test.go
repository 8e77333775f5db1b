package contracts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadArtifact(t *testing.T) {
	t.Run("CompiledJSON", func(t *testing.T) {
		artifact, err := LoadArtifact(filepath.Join("testdata", "LeasableNft.json"))
		require.NoError(t, err)
		assert.Equal(t, "LeasableNft", artifact.ContractName)
		assert.True(t, artifact.IsCompiled())
		assert.Contains(t, string(artifact.ABI), "constructor")
	})

	t.Run("MissingBytecode", func(t *testing.T) {
		_, err := LoadArtifact(filepath.Join("testdata", "Broken.json"))
		assert.Error(t, err)
	})

	t.Run("SoliditySource", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "LeasableNft.sol")
		require.NoError(t, os.WriteFile(path, []byte("pragma solidity ^0.8.0;"), 0644))

		artifact, err := LoadArtifact(path)
		require.NoError(t, err)
		assert.Equal(t, "LeasableNft", artifact.ContractName)
		assert.Equal(t, dir, artifact.SourceDir)
		assert.False(t, artifact.IsCompiled())
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadArtifact(filepath.Join("testdata", "Nope.json"))
		assert.ErrorIs(t, err, ErrArtifactNotFound)
	})

	t.Run("UnsupportedExtension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "LeasableNft.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		_, err := LoadArtifact(path)
		assert.Error(t, err)
	})
}

func TestFindArtifact(t *testing.T) {
	artifact, err := FindArtifact("testdata", "LeasableNft")
	require.NoError(t, err)
	assert.Equal(t, "LeasableNft", artifact.ContractName)

	_, err = FindArtifact("testdata", "Unknown")
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}
