package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the test database. It expects a MySQL instance on
// localhost:3306 with a database named 'comptoir_test' and skips the test
// when none is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/comptoir_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"ProformaItems", "Proformas", "SaleItems", "Sales", "Products", "Customers", "Categories"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables the tests need.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createCategoriesTable := `
	CREATE TABLE IF NOT EXISTS Categories (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		description TEXT,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createProductsTable := `
	CREATE TABLE IF NOT EXISTS Products (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		reference VARCHAR(50) NOT NULL UNIQUE,
		designation VARCHAR(255) NOT NULL,
		description TEXT,
		unitPrice DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		quantity INT NOT NULL DEFAULT 0,
		categoryId INT,
		isActive TINYINT(1) DEFAULT 1,
		isDeleted TINYINT(1) DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_category (categoryId),
		INDEX idx_deleted (isDeleted)
	)`

	createCustomersTable := `
	CREATE TABLE IF NOT EXISTS Customers (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		phone VARCHAR(30),
		email VARCHAR(150),
		address VARCHAR(255),
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createSalesTable := `
	CREATE TABLE IF NOT EXISTS Sales (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		number VARCHAR(20) NOT NULL UNIQUE,
		customerId INT NOT NULL,
		subtotal DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		discountKind VARCHAR(10) NOT NULL DEFAULT '',
		discountValue DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		discountAmount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		netAmount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		paidAmount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		changeAmount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		remainingAmount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		paymentMethod VARCHAR(50),
		saleCondition VARCHAR(50),
		status VARCHAR(20) NOT NULL DEFAULT 'COMPLETED',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_customer (customerId)
	)`

	createSaleItemsTable := `
	CREATE TABLE IF NOT EXISTS SaleItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		saleId INT UNSIGNED NOT NULL,
		reference VARCHAR(50) NOT NULL,
		designation VARCHAR(255) NOT NULL,
		unitPrice DECIMAL(12,2) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		amount DECIMAL(12,2) NOT NULL,
		FOREIGN KEY (saleId) REFERENCES Sales(id) ON DELETE CASCADE,
		INDEX idx_sale (saleId),
		INDEX idx_reference (reference)
	)`

	createProformasTable := `
	CREATE TABLE IF NOT EXISTS Proformas (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		number VARCHAR(20) NOT NULL UNIQUE,
		customerId INT NOT NULL,
		subtotal DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		discountKind VARCHAR(10) NOT NULL DEFAULT '',
		discountValue DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		discountAmount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		netAmount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		paymentMethod VARCHAR(50),
		saleCondition VARCHAR(50),
		status VARCHAR(20) NOT NULL DEFAULT 'DRAFT',
		convertedSaleId INT UNSIGNED,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_customer (customerId)
	)`

	createProformaItemsTable := `
	CREATE TABLE IF NOT EXISTS ProformaItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		proformaId INT UNSIGNED NOT NULL,
		reference VARCHAR(50) NOT NULL,
		designation VARCHAR(255) NOT NULL,
		unitPrice DECIMAL(12,2) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		amount DECIMAL(12,2) NOT NULL,
		FOREIGN KEY (proformaId) REFERENCES Proformas(id) ON DELETE CASCADE,
		INDEX idx_proforma (proformaId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Categories", createCategoriesTable},
		{"Products", createProductsTable},
		{"Customers", createCustomersTable},
		{"Sales", createSalesTable},
		{"SaleItems", createSaleItemsTable},
		{"Proformas", createProformasTable},
		{"ProformaItems", createProformaItemsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
