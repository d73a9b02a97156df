package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/sgpme-api/internal/infrastructure/postgres"
)

func migrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema PostgreSQL",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(e, func(m *postgres.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(e, func(m *postgres.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "cantidad de migraciones a revertir")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Muestra la versión aplicada del esquema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(e, func(m *postgres.Migrator) error {
				return printVersion(cmd, m)
			})
		},
	})
	return cmd
}

func withMigrator(e *env, fn func(m *postgres.Migrator) error) error {
	m, err := postgres.NewMigrator(e.cfg.DB.ConnectionString())
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			e.log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()
	return fn(m)
}

func printVersion(cmd *cobra.Command, m *postgres.Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("leer versión: %w", err)
	}
	suffix := ""
	if dirty {
		suffix = " (sucia)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "versión del esquema: %d%s\n", v, suffix)
	return nil
}
