package categorias

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/sgpme-api/internal/domain"
)

const maxNameLength = 100

// normalizeName recorta espacios y lleva el nombre a NFC, de modo que "Relaciones Públicas"
// escrito con tilde combinada y con tilde precompuesta sea el mismo nombre.
func normalizeName(name string) (string, error) {
	n := norm.NFC.String(strings.TrimSpace(name))
	if n == "" {
		return "", fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(n) > maxNameLength {
		return "", fmt.Errorf("%w: el nombre admite máximo %d caracteres", domain.ErrInvalidInput, maxNameLength)
	}
	return n, nil
}

// normalizeSubcategories recorta y normaliza cada subcategoría, descarta vacías y
// duplicados conservando la primera aparición.
func normalizeSubcategories(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = norm.NFC.String(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// removedSubcategories devuelve las subcategorías de current que no siguen en next.
// La comparación es en NFC, pero se devuelve el valor tal como está guardado porque
// así lo copian facturas y partidas. Un renombre de subcategoría cuenta como eliminación.
func removedSubcategories(current, next []string) []string {
	keep := make(map[string]struct{}, len(next))
	for _, s := range next {
		keep[norm.NFC.String(strings.TrimSpace(s))] = struct{}{}
	}
	var removed []string
	for _, s := range current {
		if _, ok := keep[norm.NFC.String(strings.TrimSpace(s))]; !ok {
			removed = append(removed, s)
		}
	}
	return removed
}
