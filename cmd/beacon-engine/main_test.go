package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/testing/assert"
	"github.com/prysmaticlabs/beacon-engine/testing/require"
)

func writeJSON(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestSortedBlockPaths_OrdersFilesLexicallyAndSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "002.json", &types.SignedBeaconBlock{})
	writeJSON(t, dir, "001.json", &types.SignedBeaconBlock{})
	writeJSON(t, dir, "010.json", &types.SignedBeaconBlock{})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o700))

	paths, err := sortedBlockPaths(dir)
	require.NoError(t, err)
	require.Equal(t, 3, len(paths))
	assert.Equal(t, filepath.Join(dir, "001.json"), paths[0])
	assert.Equal(t, filepath.Join(dir, "002.json"), paths[1])
	assert.Equal(t, filepath.Join(dir, "010.json"), paths[2])
}

func TestSortedBlockPaths_RejectsMissingDirectory(t *testing.T) {
	_, err := sortedBlockPaths(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.True(t, err != nil, "a missing blocks directory must surface as an error")
}

func TestLoadGenesisState_DecodesJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "genesis.json", &types.BeaconState{Slot: 7})

	st, err := loadGenesisState(path)
	require.NoError(t, err)
	assert.Equal(t, primitives.Slot(7), st.Slot)
}

func TestLoadGenesisState_ReturnsErrorForMissingFile(t *testing.T) {
	_, err := loadGenesisState(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, err != nil, "a missing genesis file must surface as an error")
}

func TestLoadSignedBlock_DecodesJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "block.json", &types.SignedBeaconBlock{
		Block: &types.BeaconBlock{Slot: 3, ProposerIndex: 1},
	})

	sb, err := loadSignedBlock(path)
	require.NoError(t, err)
	assert.Equal(t, primitives.Slot(3), sb.Block.Slot)
	assert.Equal(t, primitives.ValidatorIndex(1), sb.Block.ProposerIndex)
}
