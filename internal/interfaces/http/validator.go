package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/indrhi/suministros-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los errores nombran el campo como aparece en el JSON.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON y aplica las reglas validate de la DTO.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("body", "cuerpo inválido")
	}
	return validateStruct(out)
}

// idParam lee el :id de la ruta. Todos los ids son UUID; cualquier otro valor no existe.
func idParam(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: id %q", domain.ErrNotFound, id)
	}
	return id, nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Invalid("body", err.Error())
	}
	fe := verrs[0]
	return domain.Invalid(fieldPath(fe.Namespace()), ruleMessage(fe))
}

// fieldPath quita el nombre del struct raíz: "CreateEntryRequest.articulos[0].cantidad" -> "articulos[0].cantidad".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("debe incluir al menos %s elemento(s)", fe.Param())
		}
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		return "excede el máximo de " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "len":
		return fmt.Sprintf("debe tener %s caracteres", fe.Param())
	case "numeric":
		return "solo admite dígitos"
	case "uuid":
		return "debe ser un UUID"
	case "email":
		return "email inválido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "datetime":
		return "formato esperado " + fe.Param()
	default:
		return "no cumple la regla " + fe.Tag()
	}
}
