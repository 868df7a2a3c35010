package dto

import "github.com/arthavgonda/timetable-gateway/internal/models"

// TimetableResponse decorates the raw schedule with the derived grid helpers.
type TimetableResponse struct {
	Schedule    models.Schedule   `json:"timetable"`
	Date        string            `json:"date"`
	EndDate     string            `json:"end_date"`
	WeekDates   map[string]string `json:"week_dates"`
	ActiveSlots []string          `json:"active_slots"`
}

// TeacherWorkloadResponse is the per-teacher load view joined against the
// availability roster.
type TeacherWorkloadResponse struct {
	Date  string                         `json:"date"`
	Loads map[string]*models.TeacherLoad `json:"loads"`
}

// RoomUtilizationResponse is the per-room occupancy view.
type RoomUtilizationResponse struct {
	Date  string                   `json:"date"`
	Rooms []models.RoomUtilization `json:"rooms"`
}

// RoomConflictsResponse lists double-booked rooms.
type RoomConflictsResponse struct {
	Date      string                `json:"date"`
	Conflicts []models.RoomConflict `json:"conflicts"`
}
