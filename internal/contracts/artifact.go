package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrArtifactNotFound = errors.New("contract artifact not found")

// Artifact is a deployable contract. Either Bytecode and ABI are set (compiled
// Truffle/Hardhat artifact) or Source holds Solidity code that still needs compiling.
type Artifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
	Source       string          `json:"-"`
	// SourceDir is where relative imports of Source are resolved from
	SourceDir string `json:"-"`
}

// IsCompiled reports whether the artifact carries bytecode and ABI
func (a *Artifact) IsCompiled() bool {
	return a.Source == "" && a.Bytecode != "" && len(a.ABI) > 0
}

// LoadArtifact reads a compiled JSON artifact or a Solidity source file.
// For .sol files the contract name is the file name without extension.
func LoadArtifact(path string) (*Artifact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	switch ext {
	case ".sol":
		return &Artifact{
			ContractName: name,
			Source:       string(content),
			SourceDir:    filepath.Dir(path),
		}, nil
	case ".json":
		var artifact Artifact
		if err := json.Unmarshal(content, &artifact); err != nil {
			return nil, fmt.Errorf("failed to unmarshal artifact %s: %w", path, err)
		}
		if artifact.ContractName == "" {
			artifact.ContractName = name
		}
		if artifact.Bytecode == "" || len(artifact.ABI) == 0 {
			return nil, fmt.Errorf("artifact %s is missing abi or bytecode", path)
		}
		return &artifact, nil
	}
	return nil, fmt.Errorf("unsupported artifact type %q: %s", ext, path)
}

// FindArtifact looks for <name>.json, then <name>.sol inside dir
func FindArtifact(dir, name string) (*Artifact, error) {
	for _, ext := range []string{".json", ".sol"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadArtifact(path)
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrArtifactNotFound, name, dir)
}
