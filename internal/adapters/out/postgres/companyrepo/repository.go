// Package companyrepo reads the customer and contractor directory table.
package companyrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

type CompanyDTO struct {
	ID     string  `gorm:"type:varchar(64);primaryKey"`
	Name   string  `gorm:"type:varchar(255);not null"`
	Kind   string  `gorm:"type:varchar(16);not null;index"`
	Rating float64 `gorm:"not null;default:0"`
}

func (CompanyDTO) TableName() string {
	return "companies"
}

func (dto CompanyDTO) toPort() ports.Company {
	return ports.Company{
		ID:     dto.ID,
		Name:   dto.Name,
		Kind:   ports.CompanyKind(dto.Kind),
		Rating: dto.Rating,
	}
}

// GormDirectory implements ports.Directory.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) Get(ctx context.Context, id string) (ports.Company, error) {
	if id == "" {
		return ports.Company{}, errs.NewValueIsRequiredError("company id")
	}

	var dto CompanyDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Company{}, errs.NewObjectNotFoundError("company", id)
		}
		return ports.Company{}, err
	}
	return dto.toPort(), nil
}

func (d *GormDirectory) Lookup(ctx context.Context, ids []string) (map[string]ports.Company, error) {
	out := make(map[string]ports.Company, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var dtos []CompanyDTO
	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&dtos).Error; err != nil {
		return nil, err
	}
	for _, dto := range dtos {
		out[dto.ID] = dto.toPort()
	}
	return out, nil
}

// Put inserts or replaces a record. The directory is owned elsewhere; Put
// exists for seeding development databases.
func (d *GormDirectory) Put(ctx context.Context, c ports.Company) error {
	dto := CompanyDTO{ID: c.ID, Name: c.Name, Kind: string(c.Kind), Rating: c.Rating}
	return d.db.WithContext(ctx).Save(&dto).Error
}
