package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})
	if !IsDuplicateKey(dup) {
		t.Fatalf("wrapped 1062 should be a duplicate key")
	}
	if IsDuplicateKey(&mysql.MySQLError{Number: 1213}) {
		t.Fatalf("deadlock is not a duplicate key")
	}
	if IsDuplicateKey(errors.New("boom")) {
		t.Fatalf("plain error is not a duplicate key")
	}
}

func TestIsServerError(t *testing.T) {
	if !IsServerError(&mysql.MySQLError{Number: 1146}) {
		t.Fatalf("mysql error should be a server error")
	}
	if IsServerError(errors.New("dial tcp: refused")) {
		t.Fatalf("network error is not a server error")
	}
}

func TestNullIfEmpty(t *testing.T) {
	if NullIfEmpty("") != nil {
		t.Fatalf("empty string should become nil")
	}
	if NullIfEmpty("x") != "x" {
		t.Fatalf("non-empty string should pass through")
	}
}

func TestEnsureSchemaRunsEveryStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	for range schema {
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS`).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnsureSchemaStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS operators`).WillReturnError(errors.New("denied"))
	if err := EnsureSchema(context.Background(), db); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSeedSkipsWhenBusesExist(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM buses`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	if err := SeedDemoData(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("seed should not write when data exists: %v", err)
	}
}

func TestSeedRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM buses`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO operators`).WillReturnError(errors.New("denied"))
	mock.ExpectRollback()

	if err := SeedDemoData(context.Background(), db); err == nil {
		t.Fatalf("expected seed error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
