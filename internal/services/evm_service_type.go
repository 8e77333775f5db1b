package services

type ContractDeploymentWithContractCodeArgs struct {
	ContractName    string `validate:"required"`
	ConstructorArgs []any  // Constructor arguments can be empty
	ContractCode    string `validate:"required"`
	SolcVersion     string `validate:"required"`
	ImportDirs      []string
}

type ContractDeploymentWithBytecodeAndAbiArgs struct {
	ContractName    string `validate:"required"`
	Abi             string `validate:"required"`
	Bytecode        string `validate:"required,hexadecimal"`
	ConstructorArgs []any
}
