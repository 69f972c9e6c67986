package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/repository"
)

func newDashboardHandler(t *testing.T) (*DashboardHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDashboardHandler(repository.NewUserRepo(db), zap.NewNop().Sugar()), mock
}

type occupancyBody struct {
	Success bool `json:"success"`
	Data    struct {
		Rooms []struct {
			RoomNo    string `json:"roomNo"`
			Floor     int    `json:"floor"`
			Capacity  int    `json:"capacity"`
			Occupied  int    `json:"occupied"`
			Available int    `json:"available"`
		} `json:"rooms"`
		TotalRooms    int `json:"totalRooms"`
		TotalCapacity int `json:"totalCapacity"`
		TotalOccupied int `json:"totalOccupied"`
	} `json:"data"`
}

func TestOccupancyBoardLayout(t *testing.T) {
	h, mock := newDashboardHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT full_name,room_no,is_present FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"full_name", "room_no", "is_present"}).
			AddRow("Rahul Verma", "204", true).
			AddRow("Amit Shah", "204", false).
			AddRow("Kiran Rao", "507", true))

	c, rec := residentContext(t, http.MethodGet, "/api/admin/room-occupancy", "")
	require.NoError(t, h.Occupancy(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body occupancyBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	// Fixed building layout: floors 1-4 carry six rooms, floor 5 seven.
	assert.Equal(t, 31, body.Data.TotalRooms)
	require.Len(t, body.Data.Rooms, 31)
	assert.Equal(t, 31*4, body.Data.TotalCapacity)
	assert.Equal(t, 3, body.Data.TotalOccupied)

	floorCount := map[int]int{}
	byNo := map[string]int{}
	for i, r := range body.Data.Rooms {
		floorCount[r.Floor]++
		byNo[r.RoomNo] = i
		assert.Equal(t, 4, r.Capacity)
	}
	assert.Equal(t, 6, floorCount[1])
	assert.Equal(t, 6, floorCount[4])
	assert.Equal(t, 7, floorCount[5])

	r204 := body.Data.Rooms[byNo["204"]]
	assert.Equal(t, 2, r204.Occupied)
	assert.Equal(t, 2, r204.Available)
	r507 := body.Data.Rooms[byNo["507"]]
	assert.Equal(t, 1, r507.Occupied)

	empty := body.Data.Rooms[byNo["101"]]
	assert.Zero(t, empty.Occupied)
	assert.Equal(t, 4, empty.Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOccupancyUnassignedRoomSurfaced(t *testing.T) {
	h, mock := newDashboardHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT full_name,room_no,is_present FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"full_name", "room_no", "is_present"}).
			AddRow("Typo Kumar", "999", true))

	c, rec := residentContext(t, http.MethodGet, "/api/admin/room-occupancy", "")
	require.NoError(t, h.Occupancy(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Typo Kumar")
	assert.Contains(t, rec.Body.String(), `"unassigned"`)
	require.NoError(t, mock.ExpectationsWereMet())
}
