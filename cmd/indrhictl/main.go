package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/bootstrap"
	"github.com/indrhi/suministros-api/pkg/config"
	"github.com/indrhi/suministros-api/pkg/logger"
)

// Version se fija con ldflags al compilar.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "indrhictl",
	Short: "Administración del backend de suministros INDRHI",
	Long: `indrhictl aplica migraciones, carga datos iniciales y crea usuarios
usando la misma configuración (variables de entorno o .env) que el servidor.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersCreateCmd)

	seedCmd.Flags().StringP("file", "f", "seed.yaml", "archivo YAML con departamentos, artículos y usuarios")

	usersCreateCmd.Flags().String("nombre", "", "nombre completo")
	usersCreateCmd.Flags().String("email", "", "email de acceso")
	usersCreateCmd.Flags().String("password", "", "contraseña (mínimo 8 caracteres)")
	usersCreateCmd.Flags().String("rol", "SuperAdmin", "SuperAdmin | Admin | Supply | Department")
	usersCreateCmd.Flags().String("departamento", "", "código del departamento (rol Department)")
	_ = usersCreateCmd.MarkFlagRequired("email")
	_ = usersCreateCmd.MarkFlagRequired("password")
}

// env abre almacenamiento y servicios con la configuración del entorno.
type env struct {
	storage *bootstrap.Storage
	svc     *bootstrap.Services
	log     *logger.Logger
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel, Output: os.Stderr})
	st, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &env{storage: st, svc: bootstrap.NewServices(cfg, st, nil, log), log: log}, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes del esquema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.storage.Close()

		applied, err := e.storage.Migrate(ctx)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Println("✓ Esquema al día, nada que aplicar")
			return nil
		}
		for _, name := range applied {
			fmt.Printf("✓ %s\n", name)
		}
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:     "usuarios",
	Aliases: []string{"users"},
	Short:   "Gestión de usuarios",
}

var usersCreateCmd = &cobra.Command{
	Use:   "crear",
	Short: "Crea un usuario (por ejemplo el primer SuperAdmin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.storage.Close()

		name, _ := cmd.Flags().GetString("nombre")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("rol")
		deptCode, _ := cmd.Flags().GetString("departamento")
		if name == "" {
			name = email
		}

		deptID := ""
		if deptCode != "" {
			if deptID, err = departmentIDByCode(ctx, e.svc, deptCode); err != nil {
				return err
			}
		}
		out, err := e.svc.Users.Create(ctx, dto.CreateUserRequest{
			Name: name, Email: email, Password: password, Role: role, DepartmentID: deptID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Usuario %s creado (%s, id %s)\n", out.Email, out.Role, out.ID)
		return nil
	},
}
