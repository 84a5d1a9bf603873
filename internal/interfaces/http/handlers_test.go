package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/application/catalog"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Mantenimiento-api/internal/interfaces/http"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

// newAPI arma la API completa sobre el store en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	log := logger.Nop()
	lu := ledger.NewLedgerUseCase(store, repos, nil, log)
	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		PartUC:           catalog.NewPartUseCase(repos.Parts),
		LedgerUC:         lu,
		QualityUC:        ledger.NewQualityUseCase(lu, repos, log),
		ReconciliationUC: ledger.NewReconciliationUseCase(store, repos, lu),
		ReplenishmentUC:  ledger.NewReplenishmentUseCase(repos.Balances),
		JWTSecret:        testJWTSecret,
	})
	return app
}

// call hace la petición con el rol indicado y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, role string, body interface{}, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func num(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertBalanceDTO(t *testing.T, b dto.BalanceResponse, qty, accepted, quarantine, rejected int64) {
	t.Helper()
	assert.True(t, b.Quantity.Equal(num(qty)), "total %s", b.Quantity)
	assert.True(t, b.QuantityAccepted.Equal(num(accepted)), "aceptado %s", b.QuantityAccepted)
	assert.True(t, b.QuantityQuarantine.Equal(num(quarantine)), "cuarentena %s", b.QuantityQuarantine)
	assert.True(t, b.QuantityRejected.Equal(num(rejected)), "rechazado %s", b.QuantityRejected)
}

func createPart(t *testing.T, app *fiber.App, code string, minStock int64) dto.PartResponse {
	t.Helper()
	var part dto.PartResponse
	status := call(t, app, http.MethodPost, "/api/parts", "bodeguero", dto.CreatePartRequest{
		Code: code, Name: "Repuesto " + code, UnitPrice: num(2500), MinStock: num(minStock),
	}, &part)
	require.Equal(t, http.StatusCreated, status)
	return part
}

func TestAPI_SinTokenRetorna401(t *testing.T) {
	app := newAPI(t)
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/parts", "", nil, nil))
}

func TestAPI_FlujoRecepcionCalidadSalida(t *testing.T) {
	app := newAPI(t)
	part := createPart(t, app, "CORREA-A42", 8)

	var posted dto.PostMovementResponse
	status := call(t, app, http.MethodPost, "/api/stock/receipts", "bodeguero", dto.ReceiptRequest{
		PartID: part.ID, Quantity: num(10), Status: "Q", Reference: "OC-100",
	}, &posted)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "RECEIPT", posted.Movement.Type)
	assertBalanceDTO(t, posted.Balance, 10, 0, 10, 0)

	// Técnico no puede recibir
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/stock/receipts", "tecnico",
		dto.ReceiptRequest{PartID: part.ID, Quantity: num(1)}, nil))

	// Todo está en cuarentena: la salida falla con el disponible real
	var errBody dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/stock/issues", "tecnico", dto.IssueRequest{
		PartID: part.ID, Quantity: num(1), WorkOrderID: "OT-7",
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	require.NotNil(t, errBody.Available)
	assert.True(t, errBody.Available.IsZero())
	assert.True(t, errBody.Requested.Equal(num(1)))

	status = call(t, app, http.MethodPost, "/api/quality/release", "calidad", dto.QualityDispositionRequest{
		PartID: part.ID, Quantity: num(6),
	}, &posted)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "QUALITY_CHANGE", posted.Movement.Type)
	assert.Equal(t, "Q", posted.Movement.FromStatus)
	assertBalanceDTO(t, posted.Balance, 10, 6, 4, 0)

	status = call(t, app, http.MethodPost, "/api/stock/issues", "tecnico", dto.IssueRequest{
		PartID: part.ID, Quantity: num(4), WorkOrderID: "OT-7",
	}, &posted)
	require.Equal(t, http.StatusCreated, status)
	assertBalanceDTO(t, posted.Balance, 6, 2, 4, 0)

	// Auto-transición: 422
	status = call(t, app, http.MethodPost, "/api/quality/status-changes", "calidad", dto.ChangeStatusRequest{
		PartID: part.ID, From: "A", To: "A", Quantity: num(1),
	}, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_TRANSITION", errBody.Code)

	var balance dto.BalanceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/stock/"+part.ID+"/balance", "tecnico", nil, &balance))
	assertBalanceDTO(t, balance, 6, 2, 4, 0)
	require.NotNil(t, balance.BelowMinimum)
	assert.True(t, *balance.BelowMinimum)

	var byWorkOrder dto.MovementListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/stock/movements?work_order_id=OT-7", "admin", nil, &byWorkOrder))
	require.Len(t, byWorkOrder.Items, 1)
	assert.True(t, byWorkOrder.Items[0].QuantityDelta.Equal(num(-4)))

	var audit dto.LedgerAuditResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/stock/"+part.ID+"/audit", "admin", nil, &audit))
	assert.True(t, audit.Consistent)
	assert.Equal(t, 3, audit.MovementCount)

	var logs []dto.QualityLogResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/quality/"+part.ID+"/logs", "calidad", nil, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "RELEASE", logs[0].Action)
}

func TestAPI_SesionDeInventario(t *testing.T) {
	app := newAPI(t)
	part := createPart(t, app, "FILTRO-ACEITE", 2)
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/stock/receipts", "bodeguero",
		dto.ReceiptRequest{PartID: part.ID, Quantity: num(6)}, nil))

	var session dto.SessionResponse
	status := call(t, app, http.MethodPost, "/api/inventory/sessions", "bodeguero", dto.CreateSessionRequest{
		Reference: "INV-2026-10", Date: "2026-10-01",
	}, &session)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "DRAFT", session.Status)
	assert.Equal(t, "2026-10-01", session.Date)

	// Fecha con formato incorrecto
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/inventory/sessions", "bodeguero",
		dto.CreateSessionRequest{Reference: "INV-X", Date: "01/10/2026"}, nil))

	var line dto.LineResponse
	path := "/api/inventory/sessions/" + session.ID
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, path+"/lines", "bodeguero", dto.UpsertLineRequest{
		PartID: part.ID, QuantityCounted: num(5),
	}, &line))
	assert.True(t, line.Variance.Equal(num(-1)))

	var done dto.CompleteSessionResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, path+"/complete", "bodeguero", nil, &done))
	assert.Equal(t, "COMPLETED", done.Session.Status)
	require.Len(t, done.Adjustments, 1)
	assert.Equal(t, "INV-2026-10", done.Adjustments[0].Reference)
	assert.True(t, done.Adjustments[0].QuantityDelta.Equal(num(-1)))

	// Terminal: no admite más líneas
	var errBody dto.ErrorResponse
	status = call(t, app, http.MethodPut, path+"/lines", "bodeguero", dto.UpsertLineRequest{
		PartID: part.ID, QuantityCounted: num(9),
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_SESSION_STATE", errBody.Code)

	var balance dto.BalanceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/stock/"+part.ID+"/balance", "bodeguero", nil, &balance))
	assertBalanceDTO(t, balance, 5, 5, 0, 0)

	var sessions []dto.SessionResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/sessions?status=completed", "admin", nil, &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, session.ID, sessions[0].ID)
}

func TestAPI_ListaDeReposicion(t *testing.T) {
	app := newAPI(t)
	low := createPart(t, app, "SELLO-01", 10)
	createPart(t, app, "SIN-MINIMO", 0)
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/stock/receipts", "admin",
		dto.ReceiptRequest{PartID: low.ID, Quantity: num(4)}, nil))

	var list []dto.ReplenishmentSuggestionDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/replenishment-list", "bodeguero", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "SELLO-01", list[0].Code)
	assert.True(t, list[0].SuggestedOrderQty.Equal(num(11)))
	assert.True(t, list[0].EstimatedOrderCost.Equal(num(27500)))
	assert.Equal(t, 1, list[0].Priority)
}

func TestAPI_RepuestoInexistente(t *testing.T) {
	app := newAPI(t)
	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/stock/"+uuid.NewString()+"/balance", "admin", nil, &errBody))
	assert.Equal(t, "NOT_FOUND", errBody.Code)
}

func TestAPI_IdentificadorMalFormadoRetorna400(t *testing.T) {
	app := newAPI(t)
	paths := []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, "/api/parts/abc", nil},
		{http.MethodGet, "/api/stock/abc/balance", nil},
		{http.MethodGet, "/api/stock/abc/below-minimum", nil},
		{http.MethodGet, "/api/stock/abc/movements", nil},
		{http.MethodGet, "/api/quality/abc/logs", nil},
		{http.MethodGet, "/api/inventory/sessions/abc", nil},
		{http.MethodPost, "/api/stock/issues", dto.IssueRequest{PartID: "not a uuid';--", Quantity: num(1)}},
		{http.MethodPost, "/api/inventory/sessions/abc/complete", nil},
	}
	for _, tc := range paths {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var errBody dto.ErrorResponse
			assert.Equal(t, http.StatusBadRequest, call(t, app, tc.method, tc.path, "admin", tc.body, &errBody))
			assert.Equal(t, "VALIDATION", errBody.Code)
		})
	}
}
