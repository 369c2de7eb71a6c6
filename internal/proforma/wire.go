package proforma

import (
	"database/sql"

	"go.uber.org/zap"

	"comptoir/internal/config"
	"comptoir/internal/customer"
	productrepo "comptoir/internal/product/repository"
	"comptoir/internal/proforma/controller"
	proformarepo "comptoir/internal/proforma/repository"
	"comptoir/internal/proforma/service"
	"comptoir/internal/proforma/usecase"
	salerepo "comptoir/internal/sale/repository"
	saleservice "comptoir/internal/sale/service"
	"comptoir/internal/stock"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.ProformaController {
	proformaRepo := proformarepo.NewMySQLProformaRepository(db)
	proformaItemRepo := proformarepo.NewMySQLProformaItemRepository(db)
	productRepo := productrepo.NewMySQLRepository(db)
	customerRepo := customer.NewMySQLRepository(db)
	saleRepo := salerepo.NewMySQLSaleRepository(db)
	saleItemRepo := salerepo.NewMySQLSaleItemRepository(db)

	checker := stock.NewChecker(productRepo, logger)

	storeSvc := service.NewStoreService(
		db,
		proformaRepo,
		proformaItemRepo,
		logger,
		cfg.Sale.CommitTxTimeout,
	)

	// Conversion commits a real sale, so it reuses the sale commit path.
	commitSvc := saleservice.NewCommitService(
		db,
		productRepo,
		saleRepo,
		saleItemRepo,
		logger,
		cfg.Sale.CommitTxTimeout,
	)

	createUseCase := usecase.NewCreateProformaUseCase(
		customerRepo,
		productRepo,
		storeSvc,
		proformaRepo,
		logger,
	)

	getUseCase := usecase.NewGetProformaUseCase(
		proformaRepo,
		proformaItemRepo,
		customerRepo,
		cfg.Issuer,
		logger,
	)

	convertUseCase := usecase.NewConvertProformaUseCase(
		proformaRepo,
		proformaItemRepo,
		checker,
		commitSvc,
		saleRepo,
		logger,
		cfg.Sale.MaxRetryAttempts,
	)

	return controller.NewProformaController(createUseCase, getUseCase, convertUseCase, logger)
}
