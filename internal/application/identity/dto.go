package identity

import (
	"time"

	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterOperatorInput contains input for adding an operator to a branch
type RegisterOperatorInput struct {
	BranchID uuid.UUID
	Name     string
	Role     identity.OperatorRole
	Pin      string
}

// ListOperatorsInput narrows an operator listing
type ListOperatorsInput struct {
	BranchID uuid.UUID
	Status   *identity.OperatorStatus
	Role     *identity.OperatorRole
	Page     int
	PageSize int
}

// OperatorDTO is the public view of an operator. PIN material is never exposed.
type OperatorDTO struct {
	ID            uuid.UUID  `json:"id"`
	BranchID      uuid.UUID  `json:"branch_id"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	CanAuthorize  bool       `json:"can_authorize"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Version       int        `json:"version"`
}

// IdentityDTO is the result of a successful PIN verification
type IdentityDTO struct {
	OperatorID   uuid.UUID `json:"operator_id"`
	BranchID     uuid.UUID `json:"branch_id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CanAuthorize bool      `json:"can_authorize"`
}

// OperatorListResult is a page of operators
type OperatorListResult struct {
	Operators  []OperatorDTO `json:"operators"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// ToOperatorDTO converts a domain operator to its DTO
func ToOperatorDTO(op *identity.Operator) OperatorDTO {
	return OperatorDTO{
		ID:            op.ID,
		BranchID:      op.BranchID,
		Name:          op.Name,
		Role:          string(op.Role),
		Status:        string(op.Status),
		CanAuthorize:  op.Role.CanAuthorize(),
		DeactivatedAt: op.DeactivatedAt,
		CreatedAt:     op.CreatedAt,
		UpdatedAt:     op.UpdatedAt,
		Version:       op.Version,
	}
}

// ToIdentityDTO converts a verified identity to its DTO
func ToIdentityDTO(id identity.OperatorIdentity) IdentityDTO {
	return IdentityDTO{
		OperatorID:   id.ID(),
		BranchID:     id.BranchID(),
		Name:         id.Name(),
		Role:         string(id.Role()),
		CanAuthorize: id.Role().CanAuthorize(),
	}
}
