package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/repository"
)

// DashboardHandler builds the admin room-occupancy board. The building
// layout is fixed: floors 1 through 4 have rooms x01 to x06, floor 5 has
// 501 to 507, every room sleeps four. 31 rooms total.
type DashboardHandler struct {
	Users *repository.UserRepo
	Log   *zap.SugaredLogger
}

func NewDashboardHandler(users *repository.UserRepo, log *zap.SugaredLogger) *DashboardHandler {
	return &DashboardHandler{Users: users, Log: log}
}

const roomCapacity = 4

// hostelRooms lists every room number in display order.
func hostelRooms() []string {
	var rooms []string
	for floor := 1; floor <= 5; floor++ {
		last := 6
		if floor == 5 {
			last = 7
		}
		for n := 1; n <= last; n++ {
			rooms = append(rooms, fmt.Sprintf("%d0%d", floor, n))
		}
	}
	return rooms
}

type occupantJSON struct {
	FullName  string `json:"fullName"`
	IsPresent bool   `json:"isPresent"`
}

type roomJSON struct {
	RoomNo    string         `json:"roomNo"`
	Floor     int            `json:"floor"`
	Capacity  int            `json:"capacity"`
	Occupied  int            `json:"occupied"`
	Available int            `json:"available"`
	Occupants []occupantJSON `json:"occupants"`
}

// Occupancy returns one card per room with its residents and free beds.
// Residents whose room_no does not match the layout are collected under
// "unassigned" so migration typos stay visible instead of vanishing.
func (h *DashboardHandler) Occupancy(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	occupants, err := h.Users.ListOccupants(ctx)
	if err != nil {
		h.Log.Errorw("occupancy query failed", "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load occupancy")
	}

	byRoom := map[string][]occupantJSON{}
	for _, o := range occupants {
		byRoom[o.RoomNo] = append(byRoom[o.RoomNo], occupantJSON{FullName: o.FullName, IsPresent: o.IsPresent})
	}

	var rooms []roomJSON
	totalOccupied := 0
	for _, no := range hostelRooms() {
		occ := byRoom[no]
		delete(byRoom, no)
		if occ == nil {
			occ = []occupantJSON{}
		}
		available := roomCapacity - len(occ)
		if available < 0 {
			available = 0
		}
		totalOccupied += len(occ)
		rooms = append(rooms, roomJSON{
			RoomNo: no, Floor: int(no[0] - '0'), Capacity: roomCapacity,
			Occupied: len(occ), Available: available, Occupants: occ,
		})
	}

	var unassigned []occupantJSON
	for _, occ := range byRoom {
		unassigned = append(unassigned, occ...)
	}

	return respondOK(c, http.StatusOK, "", echo.Map{
		"rooms":         rooms,
		"totalRooms":    len(rooms),
		"totalCapacity": len(rooms) * roomCapacity,
		"totalOccupied": totalOccupied,
		"unassigned":    unassigned,
	})
}
