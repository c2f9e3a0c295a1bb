package catalog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shuletech/udahili/core/admission"
)

var ErrNotFound = errors.New("fee template not found")

type (
	Repository interface {
		CreateFeeTemplate(ctx context.Context, t FeeTemplate) (FeeTemplate, error)
		GetFeeTemplate(ctx context.Context, id string) (FeeTemplate, error)
		QueryAllFeeTemplates(ctx context.Context) ([]FeeTemplate, error)
		QueryFeeTemplatesByClass(ctx context.Context, classID string) ([]FeeTemplate, error)
	}

	Service struct {
		repo Repository
	}
)

var _ admission.TemplateDirectory = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nt NewFeeTemplate) (FeeTemplate, error) {
	if err := nt.Validate(); err != nil {
		return FeeTemplate{}, err
	}
	return svc.repo.CreateFeeTemplate(ctx, newTemplate(nt))
}

func (svc *Service) Get(ctx context.Context, id string) (FeeTemplate, error) {
	return svc.repo.GetFeeTemplate(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]FeeTemplate, error) {
	return svc.repo.QueryAllFeeTemplates(ctx)
}

// GetTemplatesForClass lists the active templates a fee officer may pick
// from for a given class.
func (svc *Service) GetTemplatesForClass(ctx context.Context, classID string) ([]FeeTemplate, error) {
	templates, err := svc.repo.QueryFeeTemplatesByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	active := templates[:0]
	for _, t := range templates {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active, nil
}

// TemplateComponents implements admission.TemplateDirectory.
func (svc *Service) TemplateComponents(ctx context.Context, templateID string) ([]admission.FeeComponent, error) {
	t, err := svc.repo.GetFeeTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !t.IsActive {
		return nil, errors.Wrap(ErrNotFound, "template is inactive")
	}
	return append([]admission.FeeComponent(nil), t.Components...), nil
}
