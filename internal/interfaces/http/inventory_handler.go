package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// InventoryHandler maneja sesiones de inventario físico y la lista de reposición (protegido).
type InventoryHandler struct {
	recon         *ledger.ReconciliationUseCase
	replenishment *ledger.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(recon *ledger.ReconciliationUseCase, replenishment *ledger.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{recon: recon, replenishment: replenishment}
}

// CreateSession godoc
// @Summary      Abrir sesión de inventario físico
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  true  "reference (única), date YYYY-MM-DD"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions [post]
func (h *InventoryHandler) CreateSession(c *fiber.Ctx) error {
	var in dto.CreateSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	var date time.Time
	if in.Date != "" {
		d, err := time.Parse(dateLayout, in.Date)
		if err != nil {
			return validation(c, "date debe tener formato YYYY-MM-DD")
		}
		date = d
	}
	session, err := h.recon.CreateSession(c.UserContext(), ledger.CreateSessionInput{
		Reference:         in.Reference,
		Date:              date,
		ResponsibleUserID: GetUserID(c),
		Notes:             in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSessionResponse(session))
}

// ListSessions godoc
// @Summary      Listar sesiones de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT|IN_PROGRESS|COMPLETED|CANCELLED"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.SessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions [get]
func (h *InventoryHandler) ListSessions(c *fiber.Ctx) error {
	var status entity.InventorySessionStatus
	if raw := c.Query("status"); raw != "" {
		st, err := entity.ParseSessionStatus(raw)
		if err != nil {
			return validation(c, err.Error())
		}
		status = st
	}
	list, err := h.recon.ListSessions(c.UserContext(), status, c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSessionResponse(s))
	}
	return c.JSON(out)
}

// GetSession godoc
// @Summary      Sesión de inventario con sus líneas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id} [get]
func (h *InventoryHandler) GetSession(c *fiber.Ctx) error {
	detail, err := h.recon.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SessionDetailResponse{
		Session: toSessionResponse(detail.Session),
		Lines:   toLineList(detail.Lines),
	})
}

// UpsertLine godoc
// @Summary      Registrar o corregir el conteo de un repuesto
// @Description  Reescribe quantity_system con el saldo vigente y recalcula la diferencia.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la sesión"
// @Param        body  body  dto.UpsertLineRequest  true  "part_id, quantity_counted"
// @Success      200   {object}  dto.LineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/lines [put]
func (h *InventoryHandler) UpsertLine(c *fiber.Ctx) error {
	var in dto.UpsertLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.recon.AddOrUpdateLine(c.UserContext(), ledger.LineInput{
		SessionID:       c.Params("id"),
		PartID:          in.PartID,
		QuantityCounted: in.QuantityCounted,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toLineResponse(line))
}

// CompleteSession godoc
// @Summary      Cerrar la sesión aplicando un ajuste por cada diferencia
// @Description  Todos los ajustes y el cambio a COMPLETED se confirman en una sola transacción.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CompleteSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/complete [post]
func (h *InventoryHandler) CompleteSession(c *fiber.Ctx) error {
	res, err := h.recon.CompleteSession(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	adjustments := make([]dto.MovementResponse, 0, len(res.Adjustments))
	for _, a := range res.Adjustments {
		adjustments = append(adjustments, toMovementResponse(a.Movement))
	}
	return c.JSON(dto.CompleteSessionResponse{
		Session:     toSessionResponse(res.Session),
		Lines:       toLineList(res.Lines),
		Adjustments: adjustments,
	})
}

// CancelSession godoc
// @Summary      Cancelar una sesión abierta (sin ajustes)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/cancel [post]
func (h *InventoryHandler) CancelSession(c *fiber.Ctx) error {
	session, err := h.recon.CancelSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSessionResponse(session))
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Repuestos con total activo en o bajo el mínimo, con la cantidad sugerida
//
//	de pedido, ordenados por mayor déficit.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, toReplenishmentDTO(s))
	}
	return c.JSON(out)
}
