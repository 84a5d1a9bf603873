package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Mantenimiento-api/internal/application/catalog"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PartUC           *catalog.PartUseCase
	LedgerUC         *ledger.LedgerUseCase
	QualityUC        *ledger.QualityUseCase
	ReconciliationUC *ledger.ReconciliationUseCase
	ReplenishmentUC  *ledger.ReplenishmentUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todas bajo /api requieren Bearer Token; las escrituras además piden rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	issuers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleTecnico)
	quality := RequireRole(jwt.RoleAdmin, jwt.RoleCalidad)

	// Catálogo
	parts := api.Group("/parts")
	partHandler := NewPartHandler(deps.PartUC)
	parts.Get("/", partHandler.List)
	parts.Post("/", warehouse, partHandler.Create)
	parts.Get("/code/:code", partHandler.GetByCode)
	parts.Get("/:id", partHandler.GetByID)

	// Libro de stock
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC)
	stockGroup.Post("/receipts", warehouse, stockHandler.PostReceipt)
	stockGroup.Post("/issues", issuers, stockHandler.PostIssue)
	stockGroup.Post("/adjustments", warehouse, stockHandler.PostAdjustment)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Get("/:partId/balance", stockHandler.GetBalance)
	stockGroup.Get("/:partId/below-minimum", stockHandler.IsBelowMinimum)
	stockGroup.Get("/:partId/movements", stockHandler.ListPartMovements)
	stockGroup.Get("/:partId/audit", RequireRole(jwt.RoleAdmin), stockHandler.Audit)

	// Calidad
	qualityGroup := api.Group("/quality")
	qualityHandler := NewQualityHandler(deps.QualityUC)
	qualityGroup.Post("/status-changes", quality, qualityHandler.ChangeStatus)
	qualityGroup.Post("/release", quality, qualityHandler.Release)
	qualityGroup.Post("/reject", quality, qualityHandler.Reject)
	qualityGroup.Get("/:partId/logs", qualityHandler.ListLogs)

	// Inventario físico y reposición
	inv := api.Group("/inventory")
	invHandler := NewInventoryHandler(deps.ReconciliationUC, deps.ReplenishmentUC)
	inv.Get("/replenishment-list", invHandler.GetReplenishmentList)
	inv.Get("/sessions", invHandler.ListSessions)
	inv.Get("/sessions/:id", invHandler.GetSession)
	inv.Post("/sessions", warehouse, invHandler.CreateSession)
	inv.Put("/sessions/:id/lines", warehouse, invHandler.UpsertLine)
	inv.Post("/sessions/:id/complete", warehouse, invHandler.CompleteSession)
	inv.Post("/sessions/:id/cancel", warehouse, invHandler.CancelSession)
}
