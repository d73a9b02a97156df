package categorias

import (
	"context"

	"github.com/jhoicas/sgpme-api/internal/application/dto"
)

// DefaultCategories catálogo inicial del sistema, común a todas las marcas.
var DefaultCategories = []dto.CategoryRequest{
	{Name: "Social Media", Order: 1, Subcategories: []string{"Meta", "Facebook", "Instagram", "TikTok", "Pinterest", "LinkedIn", "Otros"}},
	{Name: "Digital", Order: 2, Subcategories: []string{"Google Search", "Google Display", "WEB", "Youtube", "Mailing", "WhatsApp Business", "Otros"}},
	{Name: "Medios Tradicionales", Order: 3, Subcategories: []string{"Espectaculares", "TV", "Radio", "Periodico", "Revistas", "Publicidad Movil", "Otros"}},
	{Name: "Marketing de Contenido", Order: 4, Subcategories: []string{"Produccion de Contenido", "Influencers", "Otros"}},
	{Name: "Relaciones Públicas", Order: 5, Subcategories: []string{"Eventos en Agencia", "Eventos Privados", "Eventos Masivos", "Eventos Planta", "Eventos para Clientes", "Lanzamientos", "Otros"}},
	{Name: "Imagen Corporativa", Order: 6, Subcategories: []string{"Comunicacion Interna", "Comunicacion Planta", "Rotulacion Demos"}},
	{Name: "Plataformas", Order: 7, Subcategories: []string{"CRM", "WEB", "Otras Plataformas"}},
}

// Seed siembra las categorías cuyo nombre no exista todavía. Devuelve cuántas creó.
func (uc *CategoryUseCase) Seed(ctx context.Context, defaults []dto.CategoryRequest) (int, error) {
	created := 0
	for _, in := range defaults {
		name, err := normalizeName(in.Name)
		if err != nil {
			return created, err
		}
		existing, err := uc.categoryRepo.GetByName(ctx, name)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		if _, err := uc.Create(ctx, "", in); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
