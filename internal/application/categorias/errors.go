package categorias

import (
	"fmt"

	"github.com/jhoicas/sgpme-api/internal/domain"
)

// DuplicateNameError indica que el nombre ya lo usa otra categoría, activa o no.
// Name es el nombre ya normalizado que se comparó.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("categoría %q: %v", e.Name, domain.ErrDuplicate)
}

func (e *DuplicateNameError) Unwrap() error { return domain.ErrDuplicate }
