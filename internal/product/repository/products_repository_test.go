package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comptoir/internal/domain"
	"comptoir/internal/testutil"
)

// Unit Tests

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func insertTestProducts(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO Products (reference, designation, description, unitPrice, quantity, isActive, isDeleted)
		VALUES ('SAV-001', 'Savon', 'Savon de Marseille', 500.00, 100, 1, 0),
		       ('HUI-002', 'Huile', 'Huile de tournesol 1L', 1200.00, 50, 1, 0),
		       ('BOU-003', 'Bougie', 'Bougie parfumee', 300.00, 25, 1, 0)
	`)
	require.NoError(t, err)
}

func TestRepository_FindByReference_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	insertTestProducts(t, db)

	product, err := repo.FindByReference(context.Background(), "SAV-001")
	require.NoError(t, err)
	assert.Equal(t, "SAV-001", product.Reference)
	assert.Equal(t, "Savon", product.Designation)
	assert.Equal(t, 500.00, product.UnitPrice)
	assert.Equal(t, 100, product.Quantity)
	assert.True(t, product.IsActive)
}

func TestRepository_FindByReference_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	product, err := repo.FindByReference(context.Background(), "NOPE-001")
	assert.Error(t, err)
	assert.Nil(t, product)
}

func TestRepository_FindByReference_DeletedProduct(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	_, err := db.Exec(`
		INSERT INTO Products (reference, designation, unitPrice, quantity, isActive, isDeleted)
		VALUES ('DEL-001', 'Supprime', 100.00, 10, 1, 1)
	`)
	require.NoError(t, err)

	product, err := repo.FindByReference(context.Background(), "DEL-001")
	assert.Error(t, err)
	assert.Nil(t, product)
}

func TestRepository_List_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	insertTestProducts(t, db)

	products, total, err := repo.List(context.Background(), "Huile", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "HUI-002", products[0].Reference)
}

func TestRepository_List_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	insertTestProducts(t, db)

	products, total, err := repo.List(context.Background(), "", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, products, 2)
	// Ordered by designation: Bougie first
	assert.Equal(t, "BOU-003", products[0].Reference)
}

func TestRepository_Insert_And_FindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	id, err := repo.Insert(context.Background(), domain.Product{
		Reference:   "NEW-001",
		Designation: "Nouveau",
		UnitPrice:   750,
		Quantity:    30,
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	product, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "NEW-001", product.Reference)
	assert.Equal(t, 750.00, product.UnitPrice)
}

func TestRepository_SoftDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	insertTestProducts(t, db)

	product, err := repo.FindByReference(context.Background(), "SAV-001")
	require.NoError(t, err)

	err = repo.SoftDelete(context.Background(), product.ID)
	require.NoError(t, err)

	_, err = repo.FindByReference(context.Background(), "SAV-001")
	assert.Error(t, err)

	// Deleting again reports not found
	err = repo.SoftDelete(context.Background(), product.ID)
	assert.Error(t, err)
}

func TestRepository_FindByReferenceForUpdate_AcquiresLock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	insertTestProducts(t, db)

	// Start first transaction and acquire lock
	tx1, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	product, err := repo.FindByReferenceForUpdate(context.Background(), tx1, "SAV-001")
	require.NoError(t, err)
	assert.NotNil(t, product)

	// Start second transaction and try to update (should wait for lock)
	tx2, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := tx2.ExecContext(context.Background(), `UPDATE Products SET designation = ? WHERE reference = 'SAV-001'`, "Updated")
		done <- err
	}()

	// Sleep a bit, then rollback first transaction to release lock
	time.Sleep(100 * time.Millisecond)
	tx1.Rollback()

	// Second update should now complete
	err = <-done
	require.NoError(t, err)
	tx2.Commit()
}

func TestRepository_DecrementStock_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	insertTestProducts(t, db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	err = repo.DecrementStock(context.Background(), tx, "SAV-001", 30)
	require.NoError(t, err)

	err = tx.Commit()
	require.NoError(t, err)

	var quantity int
	err = db.QueryRow(`SELECT quantity FROM Products WHERE reference = 'SAV-001'`).Scan(&quantity)
	require.NoError(t, err)
	assert.Equal(t, 70, quantity)
}

func TestRepository_DecrementStock_MayGoNegative(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	insertTestProducts(t, db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	// Forced sales may over-commit stock
	err = repo.DecrementStock(context.Background(), tx, "BOU-003", 30)
	require.NoError(t, err)

	err = tx.Commit()
	require.NoError(t, err)

	var quantity int
	err = db.QueryRow(`SELECT quantity FROM Products WHERE reference = 'BOU-003'`).Scan(&quantity)
	require.NoError(t, err)
	assert.Equal(t, -5, quantity)
}

func TestRepository_DecrementStock_TransactionRollback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	insertTestProducts(t, db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	err = repo.DecrementStock(context.Background(), tx, "HUI-002", 10)
	require.NoError(t, err)

	err = tx.Rollback()
	require.NoError(t, err)

	var quantity int
	err = db.QueryRow(`SELECT quantity FROM Products WHERE reference = 'HUI-002'`).Scan(&quantity)
	require.NoError(t, err)
	assert.Equal(t, 50, quantity)
}

func TestRepository_DecrementStock_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.DecrementStock(context.Background(), tx, "NOPE-001", 1)
	assert.Error(t, err)
}
