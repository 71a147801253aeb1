package health

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// gorm pings on open; only the pings under test are expected
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("Failed to open gorm: %v", err)
	}
	return gdb, mock
}

func TestCheckHealthOK(t *testing.T) {
	gdb, mock := setupMockDB(t)
	mock.ExpectPing()

	svc := NewService(NewRepository(gdb))
	result, err := svc.CheckHealth()
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if result["database"] != "ok" {
		t.Errorf("Expected database ok, got %v", result["database"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestCheckHealthDatabaseDown(t *testing.T) {
	gdb, mock := setupMockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	svc := NewService(NewRepository(gdb))
	result, err := svc.CheckHealth()
	if err == nil {
		t.Fatal("Expected error when database is down")
	}
	if result["database"] != "error" {
		t.Errorf("Expected database error, got %v", result["database"])
	}
}
