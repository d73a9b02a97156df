package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/sgpme-api/internal/application/categorias"
	"github.com/jhoicas/sgpme-api/internal/application/dto"
	"github.com/jhoicas/sgpme-api/internal/domain/entity"
	"github.com/jhoicas/sgpme-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sgpme-api/internal/infrastructure/postgres"
)

func categoriasCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categorias",
		Aliases: []string{"cat"},
		Short:   "Catálogo de categorías",
	}
	cmd.AddCommand(seedCmd(e), renameCmd(e), usageCmd(e))
	return cmd
}

func seedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Crea las categorías por defecto que falten",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCategories(cmd.Context(), e, func(uc *categorias.CategoryUseCase, _ *postgres.CategoryRepo) error {
				n, err := uc.Seed(cmd.Context(), categorias.DefaultCategories)
				if err != nil {
					return fmt.Errorf("sembrar categorías: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "categorías creadas: %d\n", n)
				return nil
			})
		},
	}
}

func renameCmd(e *env) *cobra.Command {
	var removeSubs []string
	cmd := &cobra.Command{
		Use:   "rename <nombre-actual> <nombre-nuevo>",
		Short: "Renombra una categoría y migra facturas, proyecciones y presupuestos",
		Example: `  sgpmectl categorias rename "Relaciones Públicas" "Eventos"
  sgpmectl categorias rename "Eventos" "Eventos" --remove-sub Lanzamientos`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withCategories(ctx, e, func(uc *categorias.CategoryUseCase, repo *postgres.CategoryRepo) error {
				current, err := repo.GetByName(ctx, args[0])
				if err != nil {
					return err
				}
				if current == nil {
					return fmt.Errorf("no existe la categoría %q", args[0])
				}
				out, err := uc.Update(ctx, current.ID, renameRequest(current, args[1], removeSubs))
				if err != nil {
					return fmt.Errorf("renombrar %q: %w", args[0], err)
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().StringSliceVar(&removeSubs, "remove-sub", nil, "subcategoría a quitar del vocabulario (repetible)")
	return cmd
}

func usageCmd(e *env) *cobra.Command {
	var (
		asJSON  bool
		pdfPath string
	)
	cmd := &cobra.Command{
		Use:   "uso",
		Short: "Cuenta registros por nombre de categoría",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCategories(cmd.Context(), e, func(uc *categorias.CategoryUseCase, _ *postgres.CategoryRepo) error {
				out, err := uc.Usage(cmd.Context())
				if err != nil {
					return err
				}
				if pdfPath != "" {
					doc, err := pdf.NewUsageReportGenerator(e.cfg.App.Name).GenerateUsageReport(cmd.Context(), out, time.Now())
					if err != nil {
						return err
					}
					if err := os.WriteFile(pdfPath, doc, 0o644); err != nil {
						return fmt.Errorf("escribir %s: %w", pdfPath, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "reporte escrito en %s\n", pdfPath)
					return nil
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				return writeUsageTable(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "salida en JSON")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "escribe el reporte en PDF en la ruta indicada")
	return cmd
}

func withCategories(ctx context.Context, e *env, fn func(uc *categorias.CategoryUseCase, repo *postgres.CategoryRepo) error) error {
	pool, err := postgres.NewPool(ctx, e.cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	return fn(newCategoryUseCase(pool, e), postgres.NewCategoryRepository(pool))
}

func newCategoryUseCase(pool *pgxpool.Pool, e *env) *categorias.CategoryUseCase {
	return categorias.NewCategoryUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewCategoryRepository(pool),
		postgres.NewInvoiceRepository(pool),
		postgres.NewProjectionRepository(pool),
		postgres.NewMonthlyBudgetRepository(pool),
		e.log,
	)
}

// renameRequest conserva estado, orden y subcategorías de la categoría salvo las indicadas.
func renameRequest(current *entity.Category, to string, removeSubs []string) dto.CategoryRequest {
	drop := make(map[string]bool, len(removeSubs))
	for _, s := range removeSubs {
		drop[s] = true
	}
	subs := make([]string, 0, len(current.Subcategories))
	for _, s := range current.Subcategories {
		if !drop[s] {
			subs = append(subs, s)
		}
	}
	active := current.Active
	return dto.CategoryRequest{Name: to, Subcategories: subs, Active: &active, Order: current.Order}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeUsageTable(w io.Writer, out *dto.CategoryUsageResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORÍA\tCATÁLOGO\tFACTURAS\tPROYECCIONES\tPARTIDAS\tPRESUPUESTOS")
	for _, u := range out.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
			u.Name, catalogStatus(u), u.Invoices, u.Projections, u.LineItems, u.MonthlyBudgets)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(out.SkippedBlobs) > 0 {
		fmt.Fprintf(w, "\nproyecciones con partidas ilegibles: %v\n", out.SkippedBlobs)
	}
	return nil
}

func catalogStatus(u dto.CategoryUsage) string {
	switch {
	case !u.Known:
		return "huérfana"
	case !u.Active:
		return "inactiva"
	}
	return "activa"
}
