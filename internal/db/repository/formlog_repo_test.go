package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/formrush/formrush/internal/gforms"
)

type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	callArgs := m.Called(append([]interface{}{ctx, sql}, args...)...)
	return callArgs.Get(0).(pgconn.CommandTag), callArgs.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	callArgs := m.Called(append([]interface{}{ctx, sql}, args...)...)
	rows, _ := callArgs.Get(0).(pgx.Rows)
	return rows, callArgs.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	callArgs := m.Called(append([]interface{}{ctx, sql}, args...)...)
	row, _ := callArgs.Get(0).(pgx.Row)
	return row
}

func TestFormLogRepository_RecordAccess(t *testing.T) {
	db := new(mockDB)
	repo := NewFormLogRepository(db)

	rec := gforms.AccessRecord{
		FormID:        "1FAIpQLTest",
		URL:           "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
		Title:         "Event Feedback",
		QuestionCount: 4,
	}

	db.On("Exec", mock.Anything, insertAccessLogSQL,
		rec.FormID, rec.URL, rec.Title, rec.QuestionCount, mock.AnythingOfType("time.Time")).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	err := repo.RecordAccess(context.Background(), rec)

	assert.NoError(t, err)
	db.AssertExpectations(t)
}

// fakeRows serves canned access-log rows through the pgx.Rows interface.
type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.idx-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = row[i].(int64)
		case *int:
			*v = row[i].(int)
		case *string:
			*v = row[i].(string)
		case *time.Time:
			*v = row[i].(time.Time)
		}
	}
	return nil
}

func TestFormLogRepository_ListRecent(t *testing.T) {
	db := new(mockDB)
	repo := NewFormLogRepository(db)

	accessed := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	db.On("Query", mock.Anything, listRecentSQL, int32(2)).
		Return(&fakeRows{rows: [][]any{
			{int64(2), "1FAIpQLB", "https://docs.google.com/forms/d/e/1FAIpQLB/viewform", "Second", 3, accessed},
			{int64(1), "1FAIpQLA", "https://docs.google.com/forms/d/e/1FAIpQLA/viewform", "First", 1, accessed.Add(-time.Hour)},
		}}, nil)

	logs, err := repo.ListRecent(context.Background(), 2)

	assert.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, "Second", logs[0].Title)
	assert.Equal(t, int64(1), logs[1].ID)
	db.AssertExpectations(t)
}

func TestFormLogRepository_PurgeOlderThan(t *testing.T) {
	db := new(mockDB)
	repo := NewFormLogRepository(db)

	cutoff := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	db.On("Exec", mock.Anything, purgeSQL, cutoff).
		Return(pgconn.NewCommandTag("DELETE 5"), nil)

	purged, err := repo.PurgeOlderThan(context.Background(), cutoff)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), purged)
	db.AssertExpectations(t)
}
