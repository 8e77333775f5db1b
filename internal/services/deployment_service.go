package services

import (
	"github.com/rxtech-lab/leasable-nft-deployer/internal/models"
	"gorm.io/gorm"
)

type DeploymentService interface {
	CreateDeployment(deployment *models.Deployment) error
	GetDeploymentByID(id uint) (*models.Deployment, error)
	ListDeployments() ([]models.Deployment, error)
	ListDeploymentsByNetwork(network string) ([]models.Deployment, error)
	UpdateDeploymentStatus(id uint, status models.TransactionStatus, contractAddress, txHash string) error
	GetLatestConfirmedDeployment(contractName string, chainID uint64) (*models.Deployment, error)
	GetDeploymentByTransactionHash(txHash string) (*models.Deployment, error)
}

// deploymentService keeps the ledger of contract creations
type deploymentService struct {
	db *gorm.DB
}

// NewDeploymentService creates a new DeploymentService
func NewDeploymentService(db *gorm.DB) DeploymentService {
	return &deploymentService{db: db}
}

// CreateDeployment creates a new deployment
func (s *deploymentService) CreateDeployment(deployment *models.Deployment) error {
	return s.db.Create(deployment).Error
}

// GetDeploymentByID returns a deployment by its ID
func (s *deploymentService) GetDeploymentByID(id uint) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.First(&deployment, id).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// ListDeployments returns all deployments, oldest first
func (s *deploymentService) ListDeployments() ([]models.Deployment, error) {
	var deployments []models.Deployment
	err := s.db.Order("id asc").Find(&deployments).Error
	return deployments, err
}

// ListDeploymentsByNetwork returns all deployments made on a network, oldest first
func (s *deploymentService) ListDeploymentsByNetwork(network string) ([]models.Deployment, error) {
	var deployments []models.Deployment
	err := s.db.Where("network = ?", network).Order("id asc").Find(&deployments).Error
	return deployments, err
}

// UpdateDeploymentStatus updates the status of a deployment
func (s *deploymentService) UpdateDeploymentStatus(id uint, status models.TransactionStatus, contractAddress, txHash string) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if contractAddress != "" {
		updates["contract_address"] = contractAddress
	}
	if txHash != "" {
		updates["transaction_hash"] = txHash
	}

	return s.db.Model(&models.Deployment{}).Where("id = ?", id).Updates(updates).Error
}

// GetLatestConfirmedDeployment returns the most recent confirmed deployment of a contract on a chain.
// Returns gorm.ErrRecordNotFound when the contract was never deployed there.
func (s *deploymentService) GetLatestConfirmedDeployment(contractName string, chainID uint64) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.
		Where("contract_name = ? AND chain_id = ? AND status = ?", contractName, chainID, models.TransactionStatusConfirmed).
		Order("id desc").
		First(&deployment).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// GetDeploymentByTransactionHash returns a deployment by its transaction hash
func (s *deploymentService) GetDeploymentByTransactionHash(txHash string) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.Where("transaction_hash = ?", txHash).First(&deployment).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}
