package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrhi/suministros-api/internal/application/analytics"
	"github.com/indrhi/suministros-api/internal/application/auth"
	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/intake"
	"github.com/indrhi/suministros-api/internal/application/lifecycle"
	"github.com/indrhi/suministros-api/internal/application/usecase"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/infrastructure/memory"
	"github.com/indrhi/suministros-api/internal/infrastructure/pdf"
	apphttp "github.com/indrhi/suministros-api/internal/interfaces/http"
	pkgjwt "github.com/indrhi/suministros-api/pkg/jwt"
)

type server struct {
	app   *fiber.App
	store *memory.Store
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := memory.NewStore()
	clock := func() time.Time { return time.Date(2025, 6, 4, 11, 0, 0, 0, time.UTC) }

	users := usecase.NewUserUseCase(store.Users(), store.Departments())
	_, err := users.Create(context.Background(), dto.CreateUserRequest{
		Name: "John Smith", Email: "root@indrhi.gob.do", Password: "cambiar123", Role: entity.RoleSuperAdmin,
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
	apphttp.Router(app, apphttp.RouterDeps{
		ArticleUC:    usecase.NewArticleUseCase(store.Articles(), nil),
		DepartmentUC: usecase.NewDepartmentUseCase(store.Departments()),
		UserUC:       users,
		AuthUC:       auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}),
		Lifecycle: lifecycle.NewUseCase(lifecycle.Deps{
			Tx:          store,
			Requests:    store.Requests(),
			Departments: store.Departments(),
			Notes:       pdf.NewDispatchNoteRenderer(),
			Now:         clock,
		}),
		Intake:      intake.NewUseCase(store, store.Entries(), nil, nil, nil, clock),
		DashboardUC: analytics.NewDashboardUseCase(store.Articles(), store.Requests(), clock),
		DB:          store,
		JWTSecret:   testJWTSecret,
	})
	return &server{app: app, store: store}
}

func bearer(t *testing.T, role, deptID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{
		UserID: "u-" + role, Name: role + " de prueba", Role: role, DepartmentID: deptID,
	}, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call envía la petición y decodifica la respuesta JSON en out (si no es nil).
func (s *server) call(t *testing.T, method, path, auth string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func TestLoginYRutasPublicas(t *testing.T) {
	s := newServer(t)

	var login dto.LoginResponse
	status := s.call(t, http.MethodPost, "/api/usuarios/login", "", dto.LoginRequest{Email: "ROOT@indrhi.gob.do", Password: "cambiar123"}, &login)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, entity.RoleSuperAdmin, login.User.Role)

	var users dto.ListResponse[dto.UserResponse]
	status = s.call(t, http.MethodGet, "/api/usuarios", "Bearer "+login.Token, nil, &users)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, users.Total)

	var errBody dto.ErrorResponse
	status = s.call(t, http.MethodPost, "/api/usuarios/login", "", dto.LoginRequest{Email: "root@indrhi.gob.do", Password: "mala"}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errBody.Code)

	status = s.call(t, http.MethodPost, "/api/usuarios/login", "", map[string]string{"email": "no-es-email"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)

	var health map[string]string
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/metrics", "", nil, nil))

	assert.Equal(t, http.StatusUnauthorized, s.call(t, http.MethodGet, "/api/articulos", "", nil, nil))
}

func TestFlujoCompletoDeSolicitud(t *testing.T) {
	s := newServer(t)
	supply := bearer(t, entity.RoleSupply, "")
	admin := bearer(t, entity.RoleAdmin, "")

	var dept dto.DepartmentResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/departamentos", supply,
		dto.CreateDepartmentRequest{Code: "TI", Name: "Tecnología"}, &dept))
	department := bearer(t, entity.RoleDepartment, dept.ID)

	var art dto.ArticleResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/articulos", supply, map[string]any{
		"codigo": "ART-001", "descripcion": "Papel bond 8½x11", "existencia": 25,
		"cantidad_minima": 5, "unidad": entity.UnitResma, "valor": 250,
	}, &art))
	assert.Equal(t, 25, art.OnHand)

	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodPost, "/api/articulos", department,
		map[string]any{"codigo": "X", "descripcion": "X", "unidad": entity.UnitCaja}, nil), "un departamento no edita el catálogo")

	var req dto.RequestResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/solicitudes", department, dto.CreateRequestRequest{
		DepartmentID: dept.ID, Items: []dto.RequestItemInput{{ArticleID: art.ID, Quantity: 12}},
	}, &req))
	assert.Equal(t, string(entity.StatusPending), req.Status)
	assert.Equal(t, int64(1), req.Number)

	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodGet, "/api/autorizar-solicitudes", department, nil, nil))

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodPost, "/api/autorizar-solicitudes/"+req.ID+"/aprobar", admin, nil, &errBody))
	assert.Equal(t, "INVALID_TRANSITION", errBody.Code)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/solicitudes/"+req.ID+"/enviar", department, nil, &req))
	assert.Equal(t, string(entity.StatusInAuthorization), req.Status)

	var queue dto.ListResponse[dto.RequestResponse]
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/autorizar-solicitudes", admin, nil, &queue))
	assert.Equal(t, 1, queue.Total)

	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodPost, "/api/autorizar-solicitudes/"+req.ID+"/aprobar", supply, nil, nil))
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/autorizar-solicitudes/"+req.ID+"/aprobar", admin, nil, &req))
	assert.Equal(t, string(entity.StatusApproved), req.Status)

	assign := func(qty int, out any) int {
		return s.call(t, http.MethodPost, "/api/solicitudes-aprobadas/"+req.ID+"/gestionar", supply,
			dto.AssignQuantitiesRequest{Items: []dto.AssignedItemInput{{ArticleID: art.ID, Quantity: qty}}}, out)
	}
	assert.Equal(t, http.StatusBadRequest, assign(13, &errBody), "más de lo solicitado")
	require.Equal(t, http.StatusOK, assign(10, &req))
	assert.Equal(t, string(entity.StatusInManagement), req.Status)
	assert.Equal(t, 10, req.Items[0].Quantity)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/solicitudes-gestionadas/"+req.ID+"/despachar", supply, nil, &req))
	assert.Equal(t, string(entity.StatusDispatched), req.Status)
	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodPost, "/api/solicitudes-gestionadas/"+req.ID+"/despachar", supply, nil, nil))

	httpReq := httptest.NewRequest(http.MethodGet, "/api/solicitudes-despachadas/"+req.ID+"/conduce", nil)
	httpReq.Header.Set("Authorization", supply)
	resp, err := s.app.Test(httpReq, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "conduce-1.pdf")
	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	var hist dto.ListResponse[dto.StatusChangeResponse]
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/solicitudes/"+req.ID+"/historial", department, nil, &hist))
	assert.Equal(t, 5, hist.Total)

	var dash dto.DashboardResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/dashboard", department, nil, &dash))
	assert.Equal(t, 1, dash.RequestsByStatus[string(entity.StatusDispatched)])
}

func TestEntradaDeMercancia(t *testing.T) {
	s := newServer(t)
	supply := bearer(t, entity.RoleSupply, "")

	var art dto.ArticleResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/articulos", supply, map[string]any{
		"codigo": "ART-001", "descripcion": "Papel bond", "existencia": 25, "cantidad_minima": 5, "unidad": entity.UnitResma,
	}, &art))

	var next dto.NextOrderResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/entradas-mercancia/siguiente-orden", supply, nil, &next))
	assert.Equal(t, "0001", next.Digits)

	in := dto.CreateEntryRequest{
		OrderDigits: "0001", Supplier: "Papelería Nacional",
		Items: []dto.EntryItemInput{{ArticleID: art.ID, Quantity: 10}},
	}
	var entry dto.EntryResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/entradas-mercancia", supply, in, &entry))
	assert.Equal(t, "EM-2025-0001", entry.EntryNumber)
	assert.Equal(t, "INDRHI-DAF-CD-2025-0001", entry.OrderNumber)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/articulos/"+art.ID, supply, nil, &art))
	assert.Equal(t, 35, art.OnHand)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPost, "/api/entradas-mercancia", supply, in, &errBody))
	assert.Equal(t, "DUPLICATE", errBody.Code)

	in.OrderDigits = "12"
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPost, "/api/entradas-mercancia", supply, in, &errBody))
	assert.Equal(t, "VALIDATION", errBody.Code)

	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodGet, "/api/entradas-mercancia", bearer(t, entity.RoleAdmin, ""), nil, nil))

	assert.Equal(t, http.StatusNoContent, s.call(t, http.MethodDelete, "/api/entradas-mercancia/"+entry.ID, supply, nil, nil))
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/articulos/"+art.ID, supply, nil, &art))
	assert.Equal(t, 25, art.OnHand)
}

func TestIDsQueNoSonUUID(t *testing.T) {
	s := newServer(t)
	supply := bearer(t, entity.RoleSupply, "")
	superAdmin := bearer(t, entity.RoleSuperAdmin, "")

	var errBody dto.ErrorResponse
	for _, path := range []string{"/api/solicitudes/123", "/api/articulos/ART-001", "/api/entradas-mercancia/1"} {
		status := s.call(t, http.MethodGet, path, superAdmin, nil, &errBody)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Equal(t, "NOT_FOUND", errBody.Code, path)
	}
	assert.Equal(t, http.StatusNotFound, s.call(t, http.MethodPost, "/api/autorizar-solicitudes/abc/aprobar", superAdmin, nil, &errBody))

	var dept dto.DepartmentResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/departamentos", supply,
		dto.CreateDepartmentRequest{Code: "TI", Name: "Tecnología"}, &dept))

	// El artículo se referencia por id, no por su código.
	status := s.call(t, http.MethodPost, "/api/solicitudes", superAdmin, dto.CreateRequestRequest{
		DepartmentID: dept.ID, Items: []dto.RequestItemInput{{ArticleID: "ART-001", Quantity: 2}},
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "articulos[0].articulo_id: debe ser un UUID", errBody.Details)

	status = s.call(t, http.MethodPost, "/api/autorizar-solicitudes/aprobar", superAdmin, dto.BatchRequest{IDs: []string{"1", "2"}}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ids[0]: debe ser un UUID", errBody.Details)
}
