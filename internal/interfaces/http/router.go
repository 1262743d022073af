package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xm-shop/crm-api/internal/application/auth"
	"github.com/xm-shop/crm-api/internal/application/ledger"
	"github.com/xm-shop/crm-api/internal/application/lookup"
	"github.com/xm-shop/crm-api/internal/application/ports"
	"github.com/xm-shop/crm-api/internal/domain/entity"
)

// RouterDeps wires the handlers into the app.
type RouterDeps struct {
	Ledger    *ledger.Ledger
	LookupUC  *lookup.UseCase
	AuthUC    *auth.UseCase
	PDF       ports.InvoicePDFGenerator
	ShopName  string
	JWTSecret string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Everything else requires a Bearer token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Invoice ledger
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Ledger, deps.PDF, deps.ShopName)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.Get)
	invoices.Put("/:id", invoiceHandler.Save)
	// Deleting invoices is off-limits to technicians.
	invoices.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleAdvisor), invoiceHandler.Remove)
	invoices.Get("/:id/pdf", invoiceHandler.GetPDF)
	invoices.Post("/:id/pay", invoiceHandler.MarkPaid)
	invoices.Post("/:id/unpay", invoiceHandler.MarkUnpaid)
	invoices.Post("/:id/items", invoiceHandler.AddItem)
	invoices.Delete("/:id/items/:index", invoiceHandler.RemoveItem)

	// Appointment-scoped invoice access
	appointments := protected.Group("/appointments")
	appointments.Post("/:id/invoice", invoiceHandler.GetOrCreateForAppointment)

	// Vehicle and parts lookups
	lookupGroup := protected.Group("/lookup")
	lookupHandler := NewLookupHandler(deps.LookupUC)
	lookupGroup.Get("/vin/:vin", lookupHandler.DecodeVIN)
	lookupGroup.Get("/vehicle/:year/:make", lookupHandler.ListTrims)
	lookupGroup.Get("/parts/:make/:model", lookupHandler.MatchTrims)
	lookupGroup.Post("/parts", lookupHandler.SearchParts)
}
