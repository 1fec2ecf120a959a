package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlink/backend/internal/domain/shared"
)

// ProjectStatus is the closed status enumeration for projects
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Project groups quotations and invoices for a client. Documents
// without their own remote tenant inherit the project's.
type Project struct {
	shared.BaseEntity
	Name           string
	ClientID       uuid.UUID
	Status         ProjectStatus
	ExternalRef    string
	RemoteTenantID string
}

// NewProject creates a new active project
func NewProject(name string, clientID uuid.UUID) (*Project, error) {
	if name == "" {
		return nil, ErrProjectNameRequired
	}
	if clientID == uuid.Nil {
		return nil, ErrDocumentClientRequired
	}
	return &Project{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		ClientID:   clientID,
		Status:     ProjectStatusActive,
	}, nil
}

// IsOnHold reports whether the project is currently on hold
func (p *Project) IsOnHold() bool {
	return p.Status == ProjectStatusOnHold
}

// LinkRemote records the remote reference and owning tenant
func (p *Project) LinkRemote(tenantID, externalRef string) {
	p.RemoteTenantID = tenantID
	p.ExternalRef = externalRef
	p.UpdatedAt = time.Now()
}

// Resume moves an on-hold project back to active
func (p *Project) Resume() {
	if p.Status == ProjectStatusOnHold {
		p.Status = ProjectStatusActive
		p.UpdatedAt = time.Now()
	}
}
