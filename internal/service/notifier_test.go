package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/model"
	"github.com/madhavprabhu/hostelhub/internal/queue"
	"github.com/madhavprabhu/hostelhub/internal/realtime"
	"github.com/madhavprabhu/hostelhub/internal/repository"
)

// fakePublisher records emits instead of pushing to sockets.
type fakePublisher struct {
	published []struct {
		Room, Event string
		Data        interface{}
	}
	broadcast []struct {
		Event string
		Data  interface{}
	}
}

func (f *fakePublisher) Publish(room, event string, data interface{}) {
	f.published = append(f.published, struct {
		Room, Event string
		Data        interface{}
	}{room, event, data})
}

func (f *fakePublisher) Broadcast(event string, data interface{}) {
	f.broadcast = append(f.broadcast, struct {
		Event string
		Data  interface{}
	}{event, data})
}

func newTestNotifier(t *testing.T) (*Notifier, sqlmock.Sqlmock, *fakePublisher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pub := &fakePublisher{}
	n := NewNotifier(repository.NewUserRepo(db), repository.NewNotificationRepo(db),
		pub, zap.NewNop().Sugar())
	// Broker publishes are recorded, never dialed.
	n.publishEvent = func(context.Context, queue.AnnouncementPublishedEvent) error { return nil }
	return n, mock, pub
}

func TestFanOutAnnouncementWritesRowPerResident(t *testing.T) {
	n, mock, pub := newTestNotifier(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnResult(sqlmock.NewResult(1, 3))

	written, err := n.FanOutAnnouncement(context.Background(), model.Announcement{
		ID: 9, Title: "Water outage", Content: "Tanker at 5pm",
		Category: "maintenance", Priority: "high", CreatedBy: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	require.Len(t, pub.broadcast, 1)
	assert.Equal(t, realtime.EventNewAnnouncement, pub.broadcast[0].Event)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFanOutAnnouncementNoResidents(t *testing.T) {
	n, mock, pub := newTestNotifier(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// No INSERT expected: an empty recipient list never reaches the database.

	written, err := n.FanOutAnnouncement(context.Background(), model.Announcement{
		ID: 9, Category: "general", Priority: "low",
	})
	require.NoError(t, err)
	assert.Zero(t, written)
	// The live broadcast still goes out; connected clients show the feed
	// even when nobody got a notification row.
	assert.Len(t, pub.broadcast, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFanOutBrokerFailureIsSwallowed(t *testing.T) {
	n, mock, _ := newTestNotifier(t)
	n.publishEvent = func(context.Context, queue.AnnouncementPublishedEvent) error {
		return assert.AnError
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	written, err := n.FanOutAnnouncement(context.Background(), model.Announcement{
		ID: 4, Category: "general", Priority: "low",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)
}

func TestNotifyUsersTargetsPrivateRooms(t *testing.T) {
	n, mock, pub := newTestNotifier(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnResult(sqlmock.NewResult(1, 2))

	written, err := n.NotifyUsers(context.Background(), []uint64{5, 8}, repository.Payload{
		Type: "general", Title: "Fee reminder", Message: "Pay by Friday", Priority: "high",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	require.Len(t, pub.published, 2)
	assert.Equal(t, realtime.RoomUser(5), pub.published[0].Room)
	assert.Equal(t, realtime.RoomUser(8), pub.published[1].Room)
	assert.Equal(t, realtime.EventUserNotification, pub.published[0].Event)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyUsersEmptyListIsNoOp(t *testing.T) {
	n, mock, pub := newTestNotifier(t)

	written, err := n.NotifyUsers(context.Background(), nil, repository.Payload{
		Type: "general", Title: "x", Message: "y", Priority: "low",
	})
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Empty(t, pub.published)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCascadeDeleteRemovesRowsAndBroadcasts(t *testing.T) {
	n, mock, pub := newTestNotifier(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications WHERE announcement_id=?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 12))

	removed, err := n.CascadeDelete(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(12), removed)

	require.Len(t, pub.broadcast, 1)
	assert.Equal(t, realtime.EventAnnouncementDeleted, pub.broadcast[0].Event)
	require.NoError(t, mock.ExpectationsWereMet())
}
