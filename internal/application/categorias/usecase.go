package categorias

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/domain/repository"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

// Mensajes de respuesta de las mutaciones.
const (
	MsgCreated     = "Categoría creada exitosamente"
	MsgUpdated     = "Categoría actualizada exitosamente"
	MsgDeactivated = "Categoría desactivada exitosamente"
	MsgRestored    = "Categoría restaurada exitosamente"
)

// CategoryUseCase catálogo de categorías y migración en cascada de sus copias.
type CategoryUseCase struct {
	txRunner       TxRunner
	categoryRepo   repository.CategoryRepository
	invoiceRepo    repository.InvoiceRepository
	projectionRepo repository.ProjectionRepository
	budgetRepo     repository.MonthlyBudgetRepository
	scanner        *Scanner
	reconciler     *Reconciler
	log            *logger.Logger
	now            func() time.Time
}

// NewCategoryUseCase construye el caso de uso. Los repos sueltos se usan en lecturas
// fuera de transacción; las mutaciones van por txRunner.
func NewCategoryUseCase(
	txRunner TxRunner,
	categoryRepo repository.CategoryRepository,
	invoiceRepo repository.InvoiceRepository,
	projectionRepo repository.ProjectionRepository,
	budgetRepo repository.MonthlyBudgetRepository,
	log *logger.Logger,
) *CategoryUseCase {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("categorias")
	return &CategoryUseCase{
		txRunner:       txRunner,
		categoryRepo:   categoryRepo,
		invoiceRepo:    invoiceRepo,
		projectionRepo: projectionRepo,
		budgetRepo:     budgetRepo,
		scanner:        NewScanner(log),
		reconciler:     NewReconciler(),
		log:            log,
		now:            time.Now,
	}
}

// List devuelve las categorías ordenadas por orden y nombre; active nil = todas.
func (uc *CategoryUseCase) List(ctx context.Context, active *bool) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx, active)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// Get devuelve una categoría o ErrNotFound.
func (uc *CategoryUseCase) Get(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCategoryResponse(c)
	return &resp, nil
}

// ActiveNames nombres de las categorías activas en orden de despliegue.
func (uc *CategoryUseCase) ActiveNames(ctx context.Context) ([]string, error) {
	active := true
	list, err := uc.categoryRepo.List(ctx, &active)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	return names, nil
}

// Create da de alta una categoría. ErrDuplicate si el nombre ya existe, activa o no.
func (uc *CategoryUseCase) Create(ctx context.Context, userID string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	existing, err := uc.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateNameError{Name: name}
	}
	now := uc.now()
	c := &entity.Category{
		ID:            uuid.New().String(),
		Name:          name,
		Subcategories: normalizeSubcategories(in.Subcategories),
		Active:        in.IsActive(),
		Order:         in.Order,
		UserID:        userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// El índice único resuelve la carrera entre dos altas con el mismo nombre.
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &DuplicateNameError{Name: name}
		}
		return nil, err
	}
	uc.log.Info().Str("categoria_id", c.ID).Str("nombre", c.Name).Msg("categoría creada")
	resp := toCategoryResponse(c)
	return &resp, nil
}

// Update cambia nombre, subcategorías, estado y orden y migra, en la misma transacción,
// facturas, proyecciones (campo plano y partidas) y presupuestos mensuales.
// Las subcategorías que desaparecen del vocabulario quedan en null en los registros
// que terminan en la categoría; no se intenta emparejar subcategorías renombradas.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryUpdateResponse, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	subs := normalizeSubcategories(in.Subcategories)

	var (
		updated entity.Category
		report  Report
		rename  entity.CategoryRename
	)
	err = uc.txRunner.RunCategorias(ctx, func(
		categoryRepo repository.CategoryRepository,
		invoiceRepo repository.InvoiceRepository,
		projectionRepo repository.ProjectionRepository,
		budgetRepo repository.MonthlyBudgetRepository,
	) error {
		current, err := categoryRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		other, err := categoryRepo.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if other != nil && other.ID != current.ID {
			return &DuplicateNameError{Name: name}
		}

		rename = entity.NewCategoryRename(current.Name, name, removedSubcategories(current.Subcategories, subs))
		plan, err := uc.scanner.Scan(ctx, rename, invoiceRepo, projectionRepo, budgetRepo)
		if err != nil {
			return err
		}
		report, err = uc.reconciler.Apply(ctx, plan, invoiceRepo, projectionRepo, budgetRepo)
		if err != nil {
			return err
		}

		updated = *current
		updated.Name = name
		updated.Subcategories = subs
		updated.Active = in.IsActive()
		updated.Order = in.Order
		if sameCategory(current, &updated) {
			return nil
		}
		updated.UpdatedAt = uc.now()
		return categoryRepo.Update(ctx, &updated)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// También cubre el 23505 del UPDATE o del commit cuando dos renombres compiten.
		return nil, &DuplicateNameError{Name: name}
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("categoria_id", id).
		Str("nombre_anterior", rename.From).
		Str("nombre_nuevo", rename.To).
		Strs("subcategorias_eliminadas", rename.RemovedList()).
		Int("facturas", report.Invoices).
		Int("proyecciones", report.Projections).
		Int("partidas", report.LineItems).
		Int("presupuestos_mensuales", report.MonthlyBudgets).
		Int("partidas_omitidas", len(report.SkippedBlobs)).
		Msg("categoría actualizada")

	return &dto.CategoryUpdateResponse{
		Message:   MsgUpdated,
		Category:  toCategoryResponse(&updated),
		Migration: report.DTO(),
	}, nil
}

// Deactivate marca la categoría como inactiva. Los registros conservan el nombre.
func (uc *CategoryUseCase) Deactivate(ctx context.Context, id string) error {
	return uc.setActive(ctx, id, false)
}

// Restore vuelve a activar una categoría desactivada.
func (uc *CategoryUseCase) Restore(ctx context.Context, id string) error {
	return uc.setActive(ctx, id, true)
}

func (uc *CategoryUseCase) setActive(ctx context.Context, id string, active bool) error {
	ok, err := uc.categoryRepo.SetActive(ctx, id, active)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.log.Info().Str("categoria_id", id).Bool("activo", active).Msg("estado de categoría actualizado")
	return nil
}

func sameCategory(a, b *entity.Category) bool {
	return a.Name == b.Name &&
		a.Active == b.Active &&
		a.Order == b.Order &&
		slices.Equal(a.Subcategories, b.Subcategories)
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	subs := c.Subcategories
	if subs == nil {
		subs = []string{}
	}
	return dto.CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Subcategories: subs,
		Active:        c.Active,
		Order:         c.Order,
	}
}
