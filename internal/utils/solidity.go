package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/solc-go"
)

const sourceFileName = "contract.sol"

type CompilationResult struct {
	Bytecode map[string]string
	Abi      map[string]any
}

// CompileSolidity compiles a single source file. Imports such as
// "@openzeppelin/contracts/..." are resolved against importDirs in order
// (typically the project root and its node_modules directory).
func CompileSolidity(version string, code string, importDirs ...string) (CompilationResult, error) {
	compiler, err := solc.NewWithVersion(version)
	if err != nil {
		return CompilationResult{}, fmt.Errorf("failed to load solc %s: %w", version, err)
	}

	opts := solc.CompileOptions{
		ImportCallback: func(u string) solc.ImportResult {
			for _, dir := range importDirs {
				content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(u)))
				if err == nil {
					return solc.ImportResult{Contents: string(content)}
				}
			}
			return solc.ImportResult{
				Error: fmt.Sprintf("Import %s not found in %v", u, importDirs),
			}
		},
	}
	result, err := compiler.CompileWithOptions(&solc.Input{
		Language: "Solidity",
		Sources: map[string]solc.SourceIn{
			sourceFileName: {
				Content: code,
			},
		},
		Settings: solc.Settings{
			OutputSelection: map[string]map[string][]string{
				"*": {
					"*": []string{"abi", "evm.bytecode"},
				},
			},
		},
	}, &opts)
	if err != nil {
		return CompilationResult{}, err
	}

	if len(result.Errors) > 0 {
		return CompilationResult{}, fmt.Errorf("compilation errors: %v", result.Errors)
	}

	bytecodeMap := make(map[string]string)
	abiMap := make(map[string]any)

	for contractName, contract := range result.Contracts[sourceFileName] {
		bytecodeMap[contractName] = contract.EVM.Bytecode.Object
		abiMap[contractName] = contract.ABI
	}

	return CompilationResult{
		Bytecode: bytecodeMap,
		Abi:      abiMap,
	}, nil
}
