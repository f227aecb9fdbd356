package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/newsreach/newsreach/internal/scraper"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	store, err := NewWithPool(mock, "records")
	require.NoError(t, err)
	return store, mock
}

func TestNewWithPool_RejectsBadTableName(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewWithPool(mock, "records; DROP TABLE records")
	require.Error(t, err)
}

func TestStore_EnsureSchema(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS records").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Append(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	date := "2024-01-01"
	name := "Jane Doe"
	email := "jane@ex.com"
	confidence := 0.8
	rec := scraper.Record{
		URL:                  "https://ex.com/1",
		Title:                "Big Story",
		Author:               "Jane Doe",
		SourceDomain:         "ex.com",
		DatePublish:          &date,
		FullName:             &name,
		Email:                &email,
		Confidence:           &confidence,
		RocketReachConnected: true,
	}

	mock.ExpectExec("INSERT INTO records").
		WithArgs(rec.URL, rec.Title, rec.Author, rec.SourceDomain,
			rec.DatePublish, rec.FullName, rec.Email, rec.Confidence, rec.RocketReachConnected).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Append(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AppendDegradedRecord(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	rec := scraper.Record{URL: "https://ex.com/1"}

	mock.ExpectExec("INSERT INTO records").
		WithArgs(rec.URL, "", "", "",
			(*string)(nil), (*string)(nil), (*string)(nil), (*float64)(nil), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Append(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	date := "2024-01-01"
	name := "Jane Doe"
	email := "jane@ex.com"
	confidence := 0.8
	rows := pgxmock.NewRows([]string{
		"url", "title", "author", "source_domain", "date_publish",
		"full_name", "email", "confidence", "rocketreach_connected",
	}).
		AddRow("https://ex.com/1", "Big Story", "Jane Doe", "ex.com",
			&date, &name, &email, &confidence, true).
		AddRow("https://ex.com/2", "", "", "",
			(*string)(nil), (*string)(nil), (*string)(nil), (*float64)(nil), false)

	mock.ExpectQuery("SELECT url, title, author, source_domain").
		WillReturnRows(rows)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "https://ex.com/1", records[0].URL)
	require.NotNil(t, records[0].Confidence)
	require.InDelta(t, 0.8, *records[0].Confidence, 1e-9)
	require.True(t, records[0].RocketReachConnected)

	require.Equal(t, "https://ex.com/2", records[1].URL)
	require.Nil(t, records[1].Email)
	require.Nil(t, records[1].Confidence)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM records").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, store.Clear(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AppendPropagatesError(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO records").
		WithArgs("https://ex.com/1", "", "", "",
			(*string)(nil), (*string)(nil), (*string)(nil), (*float64)(nil), false).
		WillReturnError(context.DeadlineExceeded)

	err := store.Append(context.Background(), scraper.Record{URL: "https://ex.com/1"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
