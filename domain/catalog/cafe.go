package catalog

import (
	"time"

	"cantina/domain/shared"
)

// Cafe is the menu's owning location. Orders may only target active cafes.
type Cafe struct {
	id          string
	name        string
	description string
	address     string
	phone       string
	ownerID     string
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewCafe creates an active cafe owned by ownerID.
func NewCafe(id, name, description, address, phone, ownerID string) (*Cafe, error) {
	if id == "" {
		return nil, shared.NewValidationError("cafe", "id", "cafe id is required")
	}
	if name == "" {
		return nil, shared.NewValidationError("cafe", "name", "cafe name is required")
	}
	if ownerID == "" {
		return nil, shared.NewValidationError("cafe", "owner_id", "cafe owner is required")
	}
	now := time.Now()
	return &Cafe{
		id:          id,
		name:        name,
		description: description,
		address:     address,
		phone:       phone,
		ownerID:     ownerID,
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// IsOwnedBy reports whether actor may administer this cafe's menu.
// Super admins pass every ownership check.
func (c *Cafe) IsOwnedBy(actor shared.Actor) bool {
	if actor.Role == shared.RoleSuperAdmin {
		return true
	}
	return actor.IsCafeOwner() && actor.UserID == c.ownerID
}

// Deactivate takes the cafe off the ordering surface.
func (c *Cafe) Deactivate() {
	c.isActive = false
	c.updatedAt = time.Now()
}

// Activate puts the cafe back on the ordering surface.
func (c *Cafe) Activate() {
	c.isActive = true
	c.updatedAt = time.Now()
}

func (c *Cafe) ID() string           { return c.id }
func (c *Cafe) Name() string         { return c.name }
func (c *Cafe) Description() string  { return c.description }
func (c *Cafe) Address() string      { return c.address }
func (c *Cafe) Phone() string        { return c.phone }
func (c *Cafe) OwnerID() string      { return c.ownerID }
func (c *Cafe) IsActive() bool       { return c.isActive }
func (c *Cafe) CreatedAt() time.Time { return c.createdAt }
func (c *Cafe) UpdatedAt() time.Time { return c.updatedAt }

// CafeReconstructionDTO rebuilds a Cafe from storage.
type CafeReconstructionDTO struct {
	ID          string
	Name        string
	Description string
	Address     string
	Phone       string
	OwnerID     string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RebuildCafeFromDTO reconstructs the entity without firing creation rules.
func RebuildCafeFromDTO(dto CafeReconstructionDTO) *Cafe {
	return &Cafe{
		id:          dto.ID,
		name:        dto.Name,
		description: dto.Description,
		address:     dto.Address,
		phone:       dto.Phone,
		ownerID:     dto.OwnerID,
		isActive:    dto.IsActive,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
	}
}
