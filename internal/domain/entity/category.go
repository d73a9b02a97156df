package entity

import (
	"sort"
	"time"
)

// Category representa una categoría del sistema con su vocabulario de subcategorías.
// Facturas, proyecciones y presupuestos guardan copias del nombre, no el ID.
type Category struct {
	ID            string
	Name          string   // único entre todas las categorías, activas o no
	Subcategories []string // orden de captura
	Active        bool     // false = eliminada (soft delete)
	Order         int
	UserID        string // creador; vacío para las categorías sembradas
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CategoryRename describe el cambio de una categoría: nombre anterior, nombre nuevo
// y subcategorías eliminadas del vocabulario. Se aplica igual a cualquier copia
// desnormalizada (categoría, subcategoría) que tenga un registro.
type CategoryRename struct {
	From    string
	To      string
	removed map[string]struct{}
}

// NewCategoryRename construye el cambio a aplicar.
func NewCategoryRename(from, to string, removed []string) CategoryRename {
	set := make(map[string]struct{}, len(removed))
	for _, s := range removed {
		set[s] = struct{}{}
	}
	return CategoryRename{From: from, To: to, removed: set}
}

// Renames indica si cambia el nombre de la categoría.
func (r CategoryRename) Renames() bool {
	return r.From != r.To
}

// Removed indica si sub fue eliminada del vocabulario.
func (r CategoryRename) Removed(sub string) bool {
	_, ok := r.removed[sub]
	return ok
}

// RemovedList devuelve las subcategorías eliminadas en orden alfabético.
func (r CategoryRename) RemovedList() []string {
	out := make([]string, 0, len(r.removed))
	for s := range r.removed {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// IsNoop indica que el cambio no puede tocar ningún registro.
func (r CategoryRename) IsNoop() bool {
	return !r.Renames() && len(r.removed) == 0
}

// Apply devuelve la referencia (categoría, subcategoría) resultante y si cambió.
// Primero se renombra la categoría; después, si la referencia queda en la categoría
// nueva con una subcategoría eliminada, la subcategoría pasa a nil.
func (r CategoryRename) Apply(category string, sub *string) (string, *string, bool) {
	changed := false
	if r.Renames() && category == r.From {
		category = r.To
		changed = true
	}
	if category == r.To && sub != nil && r.Removed(*sub) {
		sub = nil
		changed = true
	}
	return category, sub, changed
}
