package models

import "time"

// Deployment is one contract creation attempt on a network
type Deployment struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	RunID           string            `gorm:"index;type:varchar(64)" json:"run_id"`
	Network         string            `gorm:"index;not null" json:"network"`
	ChainID         uint64            `gorm:"index;not null" json:"chain_id"`
	ContractName    string            `gorm:"index;not null" json:"contract_name"`
	ContractAddress string            `json:"contract_address"`
	DeployerAddress string            `json:"deployer_address"`
	TransactionHash string            `gorm:"index" json:"transaction_hash"`
	ConstructorArgs JSON              `gorm:"type:text" json:"constructor_args"`
	Status          TransactionStatus `gorm:"default:pending" json:"status"` // pending, confirmed, failed
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
