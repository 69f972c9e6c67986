package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*NotificationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewNotificationRepo(db), mock
}

func TestInsertForUsersBuildsMultiRowStatement(t *testing.T) {
	repo, mock := newMockDB(t)
	annID := uint64(9)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO notifications (user_id,announcement_id,type,title,message,priority) VALUES (?,?,?,?,?,?),(?,?,?,?,?,?),(?,?,?,?,?,?)")).
		WillReturnResult(sqlmock.NewResult(1, 3))

	n, err := repo.InsertForUsers(context.Background(), []uint64{1, 2, 3}, Payload{
		AnnouncementID: &annID, Type: "maintenance",
		Title: "New maintenance announcement", Message: "Tanker at 5pm", Priority: "high",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertForUsersEmptyListSkipsDB(t *testing.T) {
	repo, mock := newMockDB(t)

	n, err := repo.InsertForUsers(context.Background(), nil, Payload{Type: "general"})
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadScopedToOwner(t *testing.T) {
	repo, mock := newMockDB(t)

	// Another resident's notification id: the ownership clause makes the
	// update touch nothing, which surfaces as ErrNotFound.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read=1 WHERE id=? AND user_id=?")).
		WithArgs(uint64(5), uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRead(context.Background(), 5, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByAnnouncementReportsCount(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications WHERE announcement_id=?")).
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 40))

	n, err := repo.DeleteByAnnouncement(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(40), n)
}
