package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/shuletech/udahili/core"
	"github.com/shuletech/udahili/core/admission"
)

// FeeTemplate is a reusable set of fee components for a class, maintained
// by the fee office and consumed by the admission workflow.
type FeeTemplate struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	ClassID      string                   `json:"class_id"`
	AcademicYear string                   `json:"academic_year"`
	Components   []admission.FeeComponent `json:"components"`
	IsActive     bool                     `json:"is_active"`
	CreatedAt    time.Time                `json:"created_at"` // UTC
	UpdatedAt    time.Time                `json:"updated_at"` // UTC
}

// NewFeeTemplate contains information needed to create a FeeTemplate.
type NewFeeTemplate struct {
	Name         string                   `json:"name" validate:"required"`
	ClassID      string                   `json:"class_id" validate:"required"`
	AcademicYear string                   `json:"academic_year" validate:"required"`
	Components   []admission.FeeComponent `json:"components" validate:"required,min=1,dive"`
}

func (nt *NewFeeTemplate) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	nt.ClassID = core.CleanString(nt.ClassID)
	nt.AcademicYear = core.CleanString(nt.AcademicYear)
	return core.Validate.Struct(nt)
}

func newTemplate(nt NewFeeTemplate) FeeTemplate {
	now := time.Now().UTC()
	return FeeTemplate{
		ID:           uuid.New().String(),
		Name:         nt.Name,
		ClassID:      nt.ClassID,
		AcademicYear: nt.AcademicYear,
		Components:   nt.Components,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
