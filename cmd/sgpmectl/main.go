// Command sgpmectl tareas de operación: migraciones, semilla del catálogo y cambios de
// categoría fuera de la API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhoicas/sgpme-api/pkg/config"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

// env estado compartido que PersistentPreRunE deja listo para los subcomandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	var logLevel string

	root := &cobra.Command{
		Use:           "sgpmectl",
		Short:         "Operación de SGPME: migraciones y catálogo de categorías",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{
				Env:    cfg.App.Env,
				Level:  cfg.Log.Level,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "nivel de log (trace, debug, info, warn, error)")

	root.AddCommand(migrateCmd(e))
	root.AddCommand(categoriasCmd(e))
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
