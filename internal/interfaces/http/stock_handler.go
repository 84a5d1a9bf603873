package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// StockHandler expone el libro de stock: saldos, recepciones, salidas, ajustes e historial.
type StockHandler struct {
	uc *ledger.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.LedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetBalance godoc
// @Summary      Saldo de un repuesto por estado de calidad
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        partId  path  string  true  "ID del repuesto"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{partId}/balance [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	ctx := c.UserContext()
	partID := c.Params("partId")
	balance, err := h.uc.GetBalance(ctx, partID)
	if err != nil {
		return respondError(c, err)
	}
	below, err := h.uc.IsBelowMinimum(ctx, partID)
	if err != nil {
		return respondError(c, err)
	}
	out := toBalanceResponse(balance)
	out.BelowMinimum = &below
	return c.JSON(out)
}

// IsBelowMinimum godoc
// @Summary      Indica si el total activo está en o bajo el mínimo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        partId  path  string  true  "ID del repuesto"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{partId}/below-minimum [get]
func (h *StockHandler) IsBelowMinimum(c *fiber.Ctx) error {
	partID := c.Params("partId")
	below, err := h.uc.IsBelowMinimum(c.UserContext(), partID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"part_id": partID, "below_minimum": below})
}

// PostReceipt godoc
// @Summary      Registrar recepción (en Aceptado o Cuarentena)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiptRequest  true  "part_id, quantity, status (A|Q)"
// @Success      201   {object}  dto.PostMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/receipts [post]
func (h *StockHandler) PostReceipt(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	state := entity.QualityAccepted
	if in.Status != "" {
		s, err := entity.ParseQualityState(in.Status)
		if err != nil {
			return validation(c, err.Error())
		}
		state = s
	}
	res, err := h.uc.PostReceipt(c.UserContext(), ledger.ReceiptInput{
		PartID:   in.PartID,
		Quantity: in.Quantity,
		State:    state,
		Context:  movementContext(c, in.Reference, in.WorkOrderID, in.Notes),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPostResponse(res))
}

// PostIssue godoc
// @Summary      Registrar salida (consumo u orden de traslado) desde Aceptado
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueRequest  true  "part_id, quantity, type (ISSUE|TRANSFER), work_order_id"
// @Success      201   {object}  dto.PostMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/issues [post]
func (h *StockHandler) PostIssue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	movType := entity.MovementIssue
	if in.Type != "" {
		t, err := entity.ParseMovementType(in.Type)
		if err != nil {
			return validation(c, err.Error())
		}
		movType = t
	}
	res, err := h.uc.PostIssue(c.UserContext(), ledger.IssueInput{
		PartID:   in.PartID,
		Quantity: in.Quantity,
		Type:     movType,
		Context:  movementContext(c, in.Reference, in.WorkOrderID, in.Notes),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPostResponse(res))
}

// PostAdjustment godoc
// @Summary      Ajustar el total activo a un valor contado
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "part_id, new_total"
// @Success      201   {object}  dto.PostMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) PostAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.PostAdjustment(c.UserContext(), ledger.AdjustmentInput{
		PartID:   in.PartID,
		NewTotal: in.NewTotal,
		Context:  movementContext(c, in.Reference, "", in.Notes),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPostResponse(res))
}

// ListPartMovements godoc
// @Summary      Historial de movimientos de un repuesto (más reciente primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        partId  path   string  true   "ID del repuesto"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/{partId}/movements [get]
func (h *StockHandler) ListPartMovements(c *fiber.Ctx) error {
	return h.listMovements(c, repository.MovementFilter{PartID: c.Params("partId")})
}

// ListMovements godoc
// @Summary      Movimientos por orden de trabajo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        work_order_id  query  string  true   "Orden de trabajo"
// @Param        part_id        query  string  false  "Filtrar además por repuesto"
// @Param        limit          query  int     false  "Límite"  default(50)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	return h.listMovements(c, repository.MovementFilter{
		PartID:      c.Query("part_id"),
		WorkOrderID: c.Query("work_order_id"),
	})
}

func (h *StockHandler) listMovements(c *fiber.Ctx, filter repository.MovementFilter) error {
	filter.Limit = c.QueryInt("limit", 0)
	filter.Offset = c.QueryInt("offset", 0)
	list, err := h.uc.ListMovements(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	items := toMovementList(list)
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	})
}

// Audit godoc
// @Summary      Verifica que el saldo coincida con el replay del historial
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        partId  path  string  true  "ID del repuesto"
// @Success      200  {object}  dto.LedgerAuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{partId}/audit [get]
func (h *StockHandler) Audit(c *fiber.Ctx) error {
	audit, err := h.uc.AuditLedger(c.UserContext(), c.Params("partId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LedgerAuditResponse{
		PartID:        audit.PartID,
		Consistent:    audit.Consistent,
		MovementCount: audit.MovementCount,
		Balance:       toBalanceResponse(audit.Balance),
		Replayed:      toBalanceResponse(audit.Replayed),
	})
}

// movementContext arma la trazabilidad con el usuario del token.
func movementContext(c *fiber.Ctx, reference, workOrderID, notes string) entity.MovementContext {
	return entity.MovementContext{
		UserID:      GetUserID(c),
		Reference:   reference,
		WorkOrderID: workOrderID,
		Notes:       notes,
	}
}
