package models

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// DeploymentTransaction is the unsigned payload of a contract creation
type DeploymentTransaction struct {
	ContractName string `json:"contract_name"`
	// Data is the creation bytecode followed by the ABI encoded constructor arguments (0x prefixed)
	Data string `json:"data"`
	// ConstructorArgs holds the coerced constructor arguments keyed by ABI input name
	ConstructorArgs JSON `json:"constructor_args"`
}
