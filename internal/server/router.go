package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"comptoir/internal/category"
	"comptoir/internal/customer"
	"comptoir/internal/product"
	proformactrl "comptoir/internal/proforma/controller"
	salectrl "comptoir/internal/sale/controller"
)

func NewRouter(
	productCtrl *product.Controller,
	categoryCtrl *category.Controller,
	customerCtrl *customer.Controller,
	saleCtrl *salectrl.SaleController,
	proformaCtrl *proformactrl.ProformaController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/products", func(r chi.Router) {
		r.Post("/", productCtrl.HandleCreate)
		r.Get("/", productCtrl.HandleList)
		r.Get("/{reference}", productCtrl.HandleGetByReference)
		r.Put("/{id:[0-9]+}", productCtrl.HandleUpdate)
		r.Delete("/{id:[0-9]+}", productCtrl.HandleDelete)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Post("/", categoryCtrl.HandleCreate)
		r.Get("/", categoryCtrl.HandleList)
		r.Put("/{id}", categoryCtrl.HandleUpdate)
		r.Delete("/{id}", categoryCtrl.HandleDelete)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", customerCtrl.HandleCreate)
		r.Get("/", customerCtrl.HandleList)
		r.Get("/{id}", customerCtrl.HandleGetByID)
		r.Put("/{id}", customerCtrl.HandleUpdate)
		r.Delete("/{id}", customerCtrl.HandleDelete)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Post("/", saleCtrl.HandleCreate)
		r.Get("/", saleCtrl.HandleList)
		r.Post("/validate-stock", saleCtrl.HandleValidateStock)
		r.Get("/{id}", saleCtrl.HandleGet)
		r.Get("/{id}/document", saleCtrl.HandleDocument)
	})

	r.Route("/proformas", func(r chi.Router) {
		r.Post("/", proformaCtrl.HandleCreate)
		r.Get("/", proformaCtrl.HandleList)
		r.Get("/{id}", proformaCtrl.HandleGet)
		r.Get("/{id}/document", proformaCtrl.HandleDocument)
		r.Post("/{id}/convert", proformaCtrl.HandleConvert)
	})

	logger.Info("router configured")

	return r
}
