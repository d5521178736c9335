package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/bootstrap"
	"github.com/indrhi/suministros-api/internal/domain"
)

// SeedFile datos iniciales. Ejemplo:
//
//	departamentos:
//	  - codigo: TI
//	    nombre: Tecnología de la Información
//	articulos:
//	  - codigo: ART-001
//	    descripcion: Papel bond 8½x11
//	    existencia: 25
//	    cantidad_minima: 5
//	    unidad: RESMA
//	    valor: "250.00"
//	usuarios:
//	  - nombre: Jane Doe
//	    email: jane@indrhi.gob.do
//	    password: cambiar123
//	    rol: Department
//	    departamento: TI
type SeedFile struct {
	Departments []SeedDepartment `yaml:"departamentos"`
	Articles    []SeedArticle    `yaml:"articulos"`
	Users       []SeedUser       `yaml:"usuarios"`
}

type SeedDepartment struct {
	Code string `yaml:"codigo"`
	Name string `yaml:"nombre"`
}

type SeedArticle struct {
	Code        string `yaml:"codigo"`
	Description string `yaml:"descripcion"`
	OnHand      int    `yaml:"existencia"`
	MinQuantity int    `yaml:"cantidad_minima"`
	Unit        string `yaml:"unidad"`
	UnitPrice   string `yaml:"valor"`
}

type SeedUser struct {
	Name       string `yaml:"nombre"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Role       string `yaml:"rol"`
	Department string `yaml:"departamento"`
}

// SeedResult cuántos registros se crearon y cuántos ya existían.
type SeedResult struct {
	Created int
	Skipped int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga departamentos, artículos y usuarios desde un YAML",
	Long: `Carga datos iniciales. Los registros cuyo código o email ya existe se omiten,
así que el comando puede repetirse sin duplicar nada.

Ejemplo:
  indrhictl seed -f seed.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("leer %s: %w", path, err)
		}
		file, err := ParseSeed(raw)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.storage.Close()

		res, err := ApplySeed(ctx, e.svc, file)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Seed aplicado: %d creados, %d ya existían\n", res.Created, res.Skipped)
		return nil
	},
}

// ParseSeed decodifica el YAML rechazando campos desconocidos.
func ParseSeed(raw []byte) (*SeedFile, error) {
	var file SeedFile
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("seed inválido: %w", err)
	}
	return &file, nil
}

// ApplySeed crea departamentos, luego artículos y al final usuarios.
func ApplySeed(ctx context.Context, svc *bootstrap.Services, file *SeedFile) (SeedResult, error) {
	var res SeedResult
	count := func(err error) error {
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
			res.Skipped++
		default:
			return err
		}
		return nil
	}

	for _, d := range file.Departments {
		_, err := svc.Departments.Create(ctx, dto.CreateDepartmentRequest{Code: d.Code, Name: d.Name})
		if err := count(err); err != nil {
			return res, fmt.Errorf("departamento %s: %w", d.Code, err)
		}
	}
	for _, a := range file.Articles {
		price := decimal.Zero
		if a.UnitPrice != "" {
			p, err := decimal.NewFromString(a.UnitPrice)
			if err != nil {
				return res, fmt.Errorf("artículo %s: valor %q inválido", a.Code, a.UnitPrice)
			}
			price = p
		}
		_, err := svc.Articles.Create(ctx, dto.CreateArticleRequest{
			Code: a.Code, Description: a.Description, OnHand: a.OnHand,
			MinQuantity: a.MinQuantity, Unit: a.Unit, UnitPrice: price,
		})
		if err := count(err); err != nil {
			return res, fmt.Errorf("artículo %s: %w", a.Code, err)
		}
	}
	for _, u := range file.Users {
		deptID := ""
		if u.Department != "" {
			id, err := departmentIDByCode(ctx, svc, u.Department)
			if err != nil {
				return res, fmt.Errorf("usuario %s: %w", u.Email, err)
			}
			deptID = id
		}
		_, err := svc.Users.Create(ctx, dto.CreateUserRequest{
			Name: u.Name, Email: u.Email, Password: u.Password, Role: u.Role, DepartmentID: deptID,
		})
		if err := count(err); err != nil {
			return res, fmt.Errorf("usuario %s: %w", u.Email, err)
		}
	}
	return res, nil
}

func departmentIDByCode(ctx context.Context, svc *bootstrap.Services, code string) (string, error) {
	list, err := svc.Departments.List(ctx)
	if err != nil {
		return "", err
	}
	fold := cases.Fold()
	for _, d := range list {
		if fold.String(d.Code) == fold.String(code) {
			return d.ID, nil
		}
	}
	return "", fmt.Errorf("%w: departamento %s", domain.ErrNotFound, code)
}
