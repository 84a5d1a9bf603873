package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

const defaultUnit = "UND"

// PartUseCase casos de uso del catálogo de repuestos. El saldo no se toca aquí: solo vía movimientos.
type PartUseCase struct {
	repo repository.PartRepository
}

// NewPartUseCase construye el caso de uso.
func NewPartUseCase(repo repository.PartRepository) *PartUseCase {
	return &PartUseCase{repo: repo}
}

// Create registra un repuesto nuevo. El código es único.
func (uc *PartUseCase) Create(ctx context.Context, in dto.CreatePartRequest) (*dto.PartResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" || in.MinStock.IsNegative() || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Unit = strings.ToUpper(strings.TrimSpace(in.Unit)); in.Unit == "" {
		in.Unit = defaultUnit
	}
	now := time.Now()
	part := &entity.Part{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Unit:      in.Unit,
		UnitPrice: in.UnitPrice,
		MinStock:  in.MinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, part); err != nil {
		return nil, err
	}
	return ToPartResponse(part), nil
}

// GetByID obtiene un repuesto por ID.
func (uc *PartUseCase) GetByID(ctx context.Context, id string) (*dto.PartResponse, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrInvalidInput
	}
	return uc.found(uc.repo.GetByID(ctx, id))
}

// GetByCode obtiene un repuesto por su código.
func (uc *PartUseCase) GetByCode(ctx context.Context, code string) (*dto.PartResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.found(uc.repo.GetByCode(ctx, code))
}

// List lista el catálogo ordenado por código.
func (uc *PartUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.PartListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToPartResponse(p))
	}
	return &dto.PartListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *PartUseCase) found(part *entity.Part, err error) (*dto.PartResponse, error) {
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	return ToPartResponse(part), nil
}

// ToPartResponse convierte la entidad al DTO de respuesta.
func ToPartResponse(p *entity.Part) *dto.PartResponse {
	return &dto.PartResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Unit:      p.Unit,
		UnitPrice: p.UnitPrice,
		MinStock:  p.MinStock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
