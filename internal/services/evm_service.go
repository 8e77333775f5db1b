package services

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/contracts"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/models"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/utils"
)

// DefaultSolcVersion is used when an artifact is Solidity source and no version is configured
const DefaultSolcVersion = "0.8.24"

type EvmService interface {
	GetContractDeploymentTransactionWithContractCode(args ContractDeploymentWithContractCodeArgs) (models.DeploymentTransaction, abi.ABI, error)
	GetContractDeploymentTransactionWithBytecodeAndAbi(args ContractDeploymentWithBytecodeAndAbiArgs) (models.DeploymentTransaction, abi.ABI, error)
	GetContractDeploymentTransaction(artifact *contracts.Artifact, constructorArgs []any) (models.DeploymentTransaction, abi.ABI, error)
}

type evmService struct {
	validator   *validator.Validate
	solcVersion string
	importDirs  []string
}

// NewEvmService creates an EvmService. solcVersion and importDirs only matter for source artifacts.
func NewEvmService(solcVersion string, importDirs ...string) EvmService {
	if solcVersion == "" {
		solcVersion = DefaultSolcVersion
	}
	return &evmService{
		validator:   validator.New(),
		solcVersion: solcVersion,
		importDirs:  importDirs,
	}
}

// GetContractDeploymentTransaction builds creation data for a compiled or source artifact
func (s *evmService) GetContractDeploymentTransaction(artifact *contracts.Artifact, constructorArgs []any) (models.DeploymentTransaction, abi.ABI, error) {
	if artifact == nil {
		return models.DeploymentTransaction{}, abi.ABI{}, fmt.Errorf("artifact is required")
	}

	if artifact.IsCompiled() {
		return s.GetContractDeploymentTransactionWithBytecodeAndAbi(ContractDeploymentWithBytecodeAndAbiArgs{
			ContractName:    artifact.ContractName,
			Abi:             string(artifact.ABI),
			Bytecode:        artifact.Bytecode,
			ConstructorArgs: constructorArgs,
		})
	}

	importDirs := s.importDirs
	if artifact.SourceDir != "" {
		importDirs = append([]string{artifact.SourceDir}, importDirs...)
	}
	return s.GetContractDeploymentTransactionWithContractCode(ContractDeploymentWithContractCodeArgs{
		ContractName:    artifact.ContractName,
		ConstructorArgs: constructorArgs,
		ContractCode:    artifact.Source,
		SolcVersion:     s.solcVersion,
		ImportDirs:      importDirs,
	})
}

// GetContractDeploymentTransactionWithContractCode compiles Solidity source and builds creation data
func (s *evmService) GetContractDeploymentTransactionWithContractCode(args ContractDeploymentWithContractCodeArgs) (models.DeploymentTransaction, abi.ABI, error) {
	if err := s.validator.Struct(args); err != nil {
		return models.DeploymentTransaction{}, abi.ABI{}, err
	}

	compilationResult, err := utils.CompileSolidity(args.SolcVersion, args.ContractCode, args.ImportDirs...)
	if err != nil {
		return models.DeploymentTransaction{}, abi.ABI{}, err
	}

	bytecode, exists := compilationResult.Bytecode[args.ContractName]
	if !exists {
		return models.DeploymentTransaction{}, abi.ABI{}, fmt.Errorf("contract %s not found in compilation result", args.ContractName)
	}

	abiData, exists := compilationResult.Abi[args.ContractName]
	if !exists {
		return models.DeploymentTransaction{}, abi.ABI{}, fmt.Errorf("ABI for contract %s not found", args.ContractName)
	}

	abiBytes, err := json.Marshal(abiData)
	if err != nil {
		return models.DeploymentTransaction{}, abi.ABI{}, fmt.Errorf("failed to marshal ABI: %w", err)
	}

	return s.buildDeploymentTransaction(args.ContractName, string(abiBytes), bytecode, args.ConstructorArgs)
}

// GetContractDeploymentTransactionWithBytecodeAndAbi builds creation data from precompiled bytecode and ABI
func (s *evmService) GetContractDeploymentTransactionWithBytecodeAndAbi(args ContractDeploymentWithBytecodeAndAbiArgs) (models.DeploymentTransaction, abi.ABI, error) {
	if err := s.validator.Struct(args); err != nil {
		return models.DeploymentTransaction{}, abi.ABI{}, err
	}

	return s.buildDeploymentTransaction(args.ContractName, args.Abi, args.Bytecode, args.ConstructorArgs)
}

func (s *evmService) buildDeploymentTransaction(contractName, abiJSON, bytecode string, constructorArgs []any) (models.DeploymentTransaction, abi.ABI, error) {
	parsedABI, err := utils.ParseABI(abiJSON)
	if err != nil {
		return models.DeploymentTransaction{}, abi.ABI{}, err
	}

	encodedArgs, err := utils.EncodeContractConstructorArgs(parsedABI, constructorArgs)
	if err != nil {
		return models.DeploymentTransaction{}, abi.ABI{}, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	return models.DeploymentTransaction{
		ContractName:    contractName,
		Data:            utils.BuildDeploymentTransactionData(bytecode, encodedArgs),
		ConstructorArgs: models.JSON(utils.NamedConstructorArgs(parsedABI, constructorArgs)),
	}, parsedABI, nil
}
