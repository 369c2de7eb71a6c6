package sale

import (
	"database/sql"

	"go.uber.org/zap"

	"comptoir/internal/config"
	"comptoir/internal/customer"
	productrepo "comptoir/internal/product/repository"
	"comptoir/internal/sale/controller"
	salerepo "comptoir/internal/sale/repository"
	"comptoir/internal/sale/service"
	"comptoir/internal/sale/usecase"
	"comptoir/internal/stock"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.SaleController {
	saleRepo := salerepo.NewMySQLSaleRepository(db)
	saleItemRepo := salerepo.NewMySQLSaleItemRepository(db)
	productRepo := productrepo.NewMySQLRepository(db)
	customerRepo := customer.NewMySQLRepository(db)

	checker := stock.NewChecker(productRepo, logger)

	commitSvc := service.NewCommitService(
		db,
		productRepo,
		saleRepo,
		saleItemRepo,
		logger,
		cfg.Sale.CommitTxTimeout,
	)

	createUseCase := usecase.NewCreateSaleUseCase(
		customerRepo,
		productRepo,
		checker,
		commitSvc,
		saleRepo,
		logger,
		cfg.Sale.MaxRetryAttempts,
	)

	getUseCase := usecase.NewGetSaleUseCase(
		saleRepo,
		saleItemRepo,
		customerRepo,
		cfg.Issuer,
		logger,
	)

	return controller.NewSaleController(createUseCase, getUseCase, checker, logger)
}
