package service

import (
	"math"
	"sort"

	"github.com/arthavgonda/timetable-gateway/internal/models"
)

// Aggregations in this file are pure functions of a schedule snapshot. They
// always recompute from scratch rather than patching previous output, trading
// O(sections x days x slots) work per call for freedom from stale-merge bugs.
// The input is bounded: tens of sections at most, 6 days, 8 slots.

// BuildTeacherLoads counts assigned class slots per teacher. Lunch breaks and
// elective placeholder slots never count. Teachers present in the roster but
// absent from the schedule appear with all-zero records so downstream views
// can render "0 load" instead of omitting them.
func BuildTeacherLoads(schedule models.Schedule, roster []string) map[string]*models.TeacherLoad {
	loads := make(map[string]*models.TeacherLoad)
	for _, name := range roster {
		if name == "" {
			continue
		}
		loads[name] = newTeacherLoad(name)
	}

	for _, section := range schedule {
		for day, slots := range section {
			for slot, cell := range slots {
				if !cell.IsClass() {
					continue
				}
				if cell.Teacher.Elective || cell.Teacher.Name == "" {
					continue
				}
				load, ok := loads[cell.Teacher.Name]
				if !ok {
					load = newTeacherLoad(cell.Teacher.Name)
					loads[cell.Teacher.Name] = load
				}
				load.Total++
				load.ByDay[day]++
				load.BySlot[slot]++
				if load.Schedule[day] == nil {
					load.Schedule[day] = make(map[string]int)
				}
				load.Schedule[day][slot]++
			}
		}
	}
	return loads
}

func newTeacherLoad(name string) *models.TeacherLoad {
	byDay := make(map[string]int, len(models.Weekdays))
	for _, day := range models.Weekdays {
		byDay[day] = 0
	}
	bySlot := make(map[string]int, len(models.TimeSlots))
	for _, slot := range models.TimeSlots {
		bySlot[slot] = 0
	}
	return &models.TeacherLoad{
		Teacher:  name,
		ByDay:    byDay,
		BySlot:   bySlot,
		Schedule: make(map[string]map[string]int),
	}
}

// BuildRoomUtilization computes occupancy for every known classroom, including
// rooms that never appear in the schedule. Elective-taught slots occupy their
// room and count; lunch breaks do not.
func BuildRoomUtilization(schedule models.Schedule, rooms []models.Classroom) []models.RoomUtilization {
	totalSlots := len(models.Weekdays) * len(models.TimeSlots)

	result := make([]models.RoomUtilization, 0, len(rooms))
	for _, room := range rooms {
		daily := make(map[string]int, len(models.Weekdays))
		for _, day := range models.Weekdays {
			daily[day] = 0
		}
		used := 0
		for _, section := range schedule {
			for day, slots := range section {
				for _, cell := range slots {
					if cell.IsClass() && cell.Room == room.Room {
						used++
						daily[day]++
					}
				}
			}
		}
		pct := 0
		if totalSlots > 0 {
			pct = int(math.Round(float64(used) * 100 / float64(totalSlots)))
		}
		result = append(result, models.RoomUtilization{
			Room:                  room.Room,
			Capacity:              room.Capacity,
			Building:              room.Building,
			Floor:                 room.Floor,
			UsedSlots:             used,
			TotalSlots:            totalSlots,
			UtilizationPercentage: pct,
			Schedule:              daily,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Room < result[j].Room })
	return result
}

type conflictKey struct {
	Room string
	Day  string
	Slot string
}

// FindRoomConflicts groups schedule entries by (room, day, slot) and reports
// every group with two or more sections. Entries without a room cannot contend
// physically and are skipped, as are lunch breaks.
func FindRoomConflicts(schedule models.Schedule) []models.RoomConflict {
	sections := make([]string, 0, len(schedule))
	for section := range schedule {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	groups := make(map[conflictKey][]models.ConflictClass)
	for _, section := range sections {
		for day, slots := range schedule[section] {
			for slot, cell := range slots {
				if !cell.IsClass() || cell.Room == "" {
					continue
				}
				key := conflictKey{Room: cell.Room, Day: day, Slot: slot}
				groups[key] = append(groups[key], models.ConflictClass{
					Section: section,
					Subject: cell.Subject,
					Teacher: displayTeacher(cell.Teacher),
				})
			}
		}
	}

	conflicts := make([]models.RoomConflict, 0)
	for key, classes := range groups {
		if len(classes) < 2 {
			continue
		}
		conflicts = append(conflicts, models.RoomConflict{
			Room:               key.Room,
			Day:                key.Day,
			TimeSlot:           key.Slot,
			ConflictingClasses: classes,
		})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Room != conflicts[j].Room {
			return conflicts[i].Room < conflicts[j].Room
		}
		if conflicts[i].Day != conflicts[j].Day {
			return dayIndex(conflicts[i].Day) < dayIndex(conflicts[j].Day)
		}
		return slotIndex(conflicts[i].TimeSlot) < slotIndex(conflicts[j].TimeSlot)
	})
	return conflicts
}

// ActiveTimeSlots returns the ordered subset of slots the grid should render.
// The morning block is always active. An afternoon slot becomes active when
// any section holds a real class there, and any active afternoon drags the
// lunch slot and its two neighbours along so the break never disappears from a
// grid that still has afternoon teaching.
func ActiveTimeSlots(schedule models.Schedule) []string {
	active := make([]bool, len(models.TimeSlots))
	for i := 0; i < models.MorningSlotCount && i < len(active); i++ {
		active[i] = true
	}

	afternoonBusy := false
	for i := models.MorningSlotCount; i < len(models.TimeSlots); i++ {
		if slotHasClass(schedule, models.TimeSlots[i]) {
			active[i] = true
			afternoonBusy = true
		}
	}
	if afternoonBusy {
		for _, i := range []int{models.LunchSlotIndex - 1, models.LunchSlotIndex, models.LunchSlotIndex + 1} {
			if i >= 0 && i < len(active) {
				active[i] = true
			}
		}
	}

	result := make([]string, 0, len(models.TimeSlots))
	for i, slot := range models.TimeSlots {
		if active[i] {
			result = append(result, slot)
		}
	}
	return result
}

func slotHasClass(schedule models.Schedule, slot string) bool {
	for _, section := range schedule {
		for _, slots := range section {
			if slots[slot].IsClass() {
				return true
			}
		}
	}
	return false
}

func displayTeacher(ref models.TeacherRef) string {
	if ref.Elective {
		return models.TeacherElective
	}
	return ref.Name
}

func dayIndex(day string) int {
	for i, d := range models.Weekdays {
		if d == day {
			return i
		}
	}
	return len(models.Weekdays)
}

func slotIndex(slot string) int {
	for i, s := range models.TimeSlots {
		if s == slot {
			return i
		}
	}
	return len(models.TimeSlots)
}
