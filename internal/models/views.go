package models

// Classroom metadata, supplied by the scheduling service's CRUD endpoints.
type Classroom struct {
	Room     string `json:"room"`
	Capacity int    `json:"capacity"`
	Building string `json:"building"`
	Floor    int    `json:"floor"`
}

// TeacherLoad aggregates assigned class counts for one teacher. It is always
// recomputed from scratch; partial updates would drift.
type TeacherLoad struct {
	Teacher  string                    `json:"teacher"`
	Total    int                       `json:"total"`
	ByDay    map[string]int            `json:"byDay"`
	BySlot   map[string]int            `json:"bySlot"`
	Schedule map[string]map[string]int `json:"schedule"`
}

// RoomUtilization aggregates occupancy for one classroom. Capacity, building
// and floor come from the room's own metadata, not the schedule.
type RoomUtilization struct {
	Room                  string         `json:"room"`
	Capacity              int            `json:"capacity"`
	Building              string         `json:"building"`
	Floor                 int            `json:"floor"`
	UsedSlots             int            `json:"used_slots"`
	TotalSlots            int            `json:"total_slots"`
	UtilizationPercentage int            `json:"utilization_percentage"`
	Schedule              map[string]int `json:"schedule"`
}

// ConflictClass is one party to a room conflict.
type ConflictClass struct {
	Section string `json:"section"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
}

// RoomConflict records two or more sections assigned to the same room at the
// same day and time slot.
type RoomConflict struct {
	Room               string          `json:"room"`
	Day                string          `json:"day"`
	TimeSlot           string          `json:"time_slot"`
	ConflictingClasses []ConflictClass `json:"conflicting_classes"`
}
