package audit

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"farelink_admin/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormLoggerRecord(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "audit_entries"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := NewGormLogger(db).Record(context.Background(), models.AuditEntry{
		CompanyID: "co-1",
		ActorID:   "u-1",
		Action:    models.AuditRouteCreate,
		RouteID:   "r-1",
		BusIDs:    pq.StringArray{"b1", "b2"},
		LegCount:  3,
		Outcome:   "ok",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLoggerRecent(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "company_id", "action", "route_id", "bus_ids", "outcome"}).
		AddRow(9, "co-1", models.AuditRouteDelete, "r-2", "{}", "ok").
		AddRow(8, "co-1", models.AuditRouteCreate, "r-1", "{b1,b2}", "ok")
	mock.ExpectQuery(`SELECT \* FROM "audit_entries" WHERE company_id = \$1 .*ORDER BY id DESC LIMIT`).
		WillReturnRows(rows)

	entries, err := NewGormLogger(db).Recent(context.Background(), "co-1", 20)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(9), entries[0].ID)
	assert.Equal(t, models.AuditRouteDelete, entries[0].Action)
	assert.Equal(t, pq.StringArray{"b1", "b2"}, entries[1].BusIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type failingLogger struct{ Nop }

func (failingLogger) Record(context.Context, models.AuditEntry) error {
	return errors.New("db down")
}

func TestRecordSwallowsErrors(t *testing.T) {
	assert.NotPanics(t, func() {
		Record(context.Background(), failingLogger{}, models.AuditEntry{Action: models.AuditRouteUpdate})
	})
}

func TestNop(t *testing.T) {
	var l Logger = Nop{}
	assert.NoError(t, l.Record(context.Background(), models.AuditEntry{}))
	entries, err := l.Recent(context.Background(), "co-1", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
