package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestFraudLogCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFraudLogRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `fraud_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entry := &model.FraudLog{
		ArticleID:    7,
		SellerID:     3,
		OldPrice:     100,
		NewPrice:     200,
		ChangePct:    100,
		Reason:       "Price changed by 100.0% (from 100.0 to 200.0)",
		IsSuspicious: true,
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	require.EqualValues(t, 1, entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFraudLogFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFraudLogRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "article_id", "seller_id", "old_price", "new_price",
		"change_pct", "reason", "is_suspicious", "resolved", "created_at",
	}).AddRow(5, 7, 3, 100.0, 200.0, 100.0, "Price changed by 100.0% (from 100.0 to 200.0)", true, false, time.Now())

	mock.ExpectQuery("SELECT \\* FROM `fraud_logs` WHERE `fraud_logs`.`id` = \\?").
		WithArgs(5, 1).
		WillReturnRows(rows)

	entry, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	require.EqualValues(t, 7, entry.ArticleID)
	require.True(t, entry.IsSuspicious)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFraudLogFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFraudLogRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `fraud_logs`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 404)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFraudLogListSuspiciousOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFraudLogRepository(db)

	rows := sqlmock.NewRows([]string{"id", "article_id", "is_suspicious"}).
		AddRow(2, 7, true).
		AddRow(1, 7, true)

	mock.ExpectQuery("SELECT \\* FROM `fraud_logs` WHERE is_suspicious = \\? ORDER BY id desc LIMIT \\?").
		WillReturnRows(rows)

	entries, err := repo.List(context.Background(), true, 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.EqualValues(t, 2, entries[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFraudLogUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFraudLogRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `fraud_logs` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry := &model.FraudLog{ID: 5, ArticleID: 7, SellerID: 3, Reason: "OK", Resolved: true}
	require.NoError(t, repo.Update(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}
