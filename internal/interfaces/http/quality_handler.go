package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QualityHandler disposición de calidad: cambios de estado A/Q/R y bitácora.
type QualityHandler struct {
	uc *ledger.QualityUseCase
}

// NewQualityHandler construye el handler.
func NewQualityHandler(uc *ledger.QualityUseCase) *QualityHandler {
	return &QualityHandler{uc: uc}
}

// ChangeStatus godoc
// @Summary      Reclasificar unidades entre estados de calidad
// @Tags         quality
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangeStatusRequest  true  "part_id, from, to, quantity"
// @Success      201   {object}  dto.PostMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/quality/status-changes [post]
func (h *QualityHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	from, err := entity.ParseQualityState(in.From)
	if err != nil {
		return validation(c, err.Error())
	}
	to, err := entity.ParseQualityState(in.To)
	if err != nil {
		return validation(c, err.Error())
	}
	res, err := h.uc.ChangeStatus(c.UserContext(), ledger.ChangeStatusInput{
		PartID:   in.PartID,
		From:     from,
		To:       to,
		Quantity: in.Quantity,
		Context:  movementContext(c, "", "", in.Notes),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPostResponse(res))
}

// Release godoc
// @Summary      Liberar unidades de Cuarentena a Aceptado
// @Tags         quality
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QualityDispositionRequest  true  "part_id, quantity"
// @Success      201   {object}  dto.PostMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quality/release [post]
func (h *QualityHandler) Release(c *fiber.Ctx) error {
	return h.dispose(c, h.uc.Release)
}

// Reject godoc
// @Summary      Rechazar unidades en Cuarentena
// @Tags         quality
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QualityDispositionRequest  true  "part_id, quantity"
// @Success      201   {object}  dto.PostMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quality/reject [post]
func (h *QualityHandler) Reject(c *fiber.Ctx) error {
	return h.dispose(c, h.uc.Reject)
}

type dispositionFunc func(ctx context.Context, partID string, qty decimal.Decimal, mc entity.MovementContext) (*ledger.PostResult, error)

func (h *QualityHandler) dispose(c *fiber.Ctx, fn dispositionFunc) error {
	var in dto.QualityDispositionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := fn(c.UserContext(), in.PartID, in.Quantity, movementContext(c, "", "", in.Notes))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPostResponse(res))
}

// ListLogs godoc
// @Summary      Bitácora de calidad de un repuesto
// @Tags         quality
// @Security     Bearer
// @Produce      json
// @Param        partId  path   string  true   "ID del repuesto"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.QualityLogResponse
// @Router       /api/quality/{partId}/logs [get]
func (h *QualityHandler) ListLogs(c *fiber.Ctx) error {
	list, err := h.uc.ListQualityLogs(c.UserContext(), c.Params("partId"), c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.QualityLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toQualityLogResponse(l))
	}
	return c.JSON(out)
}
