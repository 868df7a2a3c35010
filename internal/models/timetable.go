package models

import "encoding/json"

// Wire sentinels used by the scheduling service. They are decoded into the
// typed Slot representation at the JSON boundary and never compared against
// inside aggregation code.
const (
	SubjectLunch    = "Lunch"
	TeacherElective = "respective teacher"
)

// Weekdays lists the six working-day labels in grid order. Sunday never
// appears on the grid.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// TimeSlots lists the eight fixed half-open display intervals in grid order.
// The first five are the morning block, LunchSlotIndex marks the lunch break,
// and the remaining slots form the afternoon block.
var TimeSlots = []string{
	"8:00-9:00",
	"9:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-1:00",
	"1:00-2:00",
	"2:00-3:00",
	"3:00-4:00",
}

// LunchSlotIndex is the position of the lunch break within TimeSlots.
const LunchSlotIndex = 5

// MorningSlotCount is the number of leading slots that are always displayed.
const MorningSlotCount = 5

// SlotKind distinguishes real classes from the lunch break.
type SlotKind int

const (
	SlotClass SlotKind = iota
	SlotLunch
)

// TeacherRef identifies the teacher attached to a slot. Elective slots carry a
// placeholder instead of a concrete person and are skipped by per-teacher
// aggregation.
type TeacherRef struct {
	Name     string
	Elective bool
}

// Slot is a single timetable cell. A nil *Slot means the cell is free.
type Slot struct {
	Kind    SlotKind
	Subject string
	Teacher TeacherRef
	Room    string
}

// IsClass reports whether the slot counts as a real class.
func (s *Slot) IsClass() bool {
	return s != nil && s.Kind == SlotClass
}

type slotWire struct {
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
	Room    string `json:"room,omitempty"`
}

// UnmarshalJSON decodes the upstream wire shape, folding the string sentinels
// into the typed representation.
func (s *Slot) UnmarshalJSON(data []byte) error {
	var wire slotWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	s.Subject = wire.Subject
	s.Room = wire.Room
	if wire.Subject == SubjectLunch {
		s.Kind = SlotLunch
	} else {
		s.Kind = SlotClass
	}
	if wire.Teacher == TeacherElective {
		s.Teacher = TeacherRef{Elective: true}
	} else {
		s.Teacher = TeacherRef{Name: wire.Teacher}
	}
	return nil
}

// MarshalJSON re-encodes the wire shape so payloads round-trip unchanged.
func (s Slot) MarshalJSON() ([]byte, error) {
	wire := slotWire{Subject: s.Subject, Room: s.Room}
	if s.Kind == SlotLunch {
		wire.Subject = SubjectLunch
	}
	if s.Teacher.Elective {
		wire.Teacher = TeacherElective
	} else {
		wire.Teacher = s.Teacher.Name
	}
	return json.Marshal(wire)
}

// DaySchedule maps a time slot label to its cell.
type DaySchedule map[string]*Slot

// SectionSchedule maps a day label to that day's cells.
type SectionSchedule map[string]DaySchedule

// Schedule is the raw timetable payload: section -> day -> slot -> cell. It is
// always replaced wholesale when a fresher version arrives, never patched.
type Schedule map[string]SectionSchedule

// Timetable couples a schedule with its validity window.
type Timetable struct {
	Schedule Schedule `json:"timetable"`
	Date     string   `json:"date"`
	EndDate  string   `json:"end_date"`
}
