package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthavgonda/timetable-gateway/internal/models"
)

func classSlot(subject, teacher, room string) *models.Slot {
	return &models.Slot{Kind: models.SlotClass, Subject: subject, Teacher: models.TeacherRef{Name: teacher}, Room: room}
}

func electiveSlot(subject, room string) *models.Slot {
	return &models.Slot{Kind: models.SlotClass, Subject: subject, Teacher: models.TeacherRef{Elective: true}, Room: room}
}

func lunchSlot() *models.Slot {
	return &models.Slot{Kind: models.SlotLunch, Subject: models.SubjectLunch}
}

func sampleSchedule() models.Schedule {
	return models.Schedule{
		"CSE-A": {
			"Monday": {
				"8:00-9:00":   classSlot("Maths", "Dr. Rao", "R101"),
				"9:00-10:00":  classSlot("Physics", "Dr. Rao", "R101"),
				"10:00-11:00": classSlot("Chemistry", "Dr. Iyer", "R102"),
				"1:00-2:00":   lunchSlot(),
			},
			"Tuesday": {
				"8:00-9:00": classSlot("Maths", "Dr. Rao", "R101"),
			},
		},
		"CSE-B": {
			"Monday": {
				"8:00-9:00": electiveSlot("Open Elective", "R103"),
				"1:00-2:00": lunchSlot(),
			},
		},
	}
}

func TestBuildTeacherLoadsCounts(t *testing.T) {
	loads := BuildTeacherLoads(sampleSchedule(), nil)

	require.Contains(t, loads, "Dr. Rao")
	rao := loads["Dr. Rao"]
	assert.Equal(t, 3, rao.Total)
	assert.Equal(t, 2, rao.ByDay["Monday"])
	assert.Equal(t, 1, rao.ByDay["Tuesday"])
	assert.Equal(t, 2, rao.BySlot["8:00-9:00"])
	assert.Equal(t, 1, rao.Schedule["Monday"]["9:00-10:00"])

	assert.Equal(t, 1, loads["Dr. Iyer"].Total)
}

func TestBuildTeacherLoadsByDaySumsToTotal(t *testing.T) {
	loads := BuildTeacherLoads(sampleSchedule(), []string{"Dr. Rao", "Dr. Iyer", "Dr. Menon"})
	for name, load := range loads {
		sum := 0
		for _, count := range load.ByDay {
			sum += count
		}
		assert.Equal(t, load.Total, sum, "byDay must sum to total for %s", name)
	}
}

func TestBuildTeacherLoadsExcludesLunchAndElectives(t *testing.T) {
	loads := BuildTeacherLoads(sampleSchedule(), nil)
	for name, load := range loads {
		assert.Zero(t, load.BySlot["1:00-2:00"], "lunch slot must not count for %s", name)
	}
	// The elective placeholder is not a real individual.
	assert.NotContains(t, loads, models.TeacherElective)
	assert.NotContains(t, loads, "")
}

func TestBuildTeacherLoadsIncludesIdleRosterTeachers(t *testing.T) {
	loads := BuildTeacherLoads(sampleSchedule(), []string{"Dr. Menon"})

	require.Contains(t, loads, "Dr. Menon")
	idle := loads["Dr. Menon"]
	assert.Zero(t, idle.Total)
	for _, day := range models.Weekdays {
		assert.Zero(t, idle.ByDay[day])
	}
}

func TestBuildTeacherLoadsIsIdempotent(t *testing.T) {
	schedule := sampleSchedule()
	first := BuildTeacherLoads(schedule, []string{"Dr. Menon"})
	second := BuildTeacherLoads(schedule, []string{"Dr. Menon"})
	assert.Equal(t, first, second)
}

func TestBuildRoomUtilization(t *testing.T) {
	rooms := []models.Classroom{
		{Room: "R101", Capacity: 60, Building: "Main", Floor: 1},
		{Room: "R103", Capacity: 40, Building: "Annex", Floor: 2},
		{Room: "R999", Capacity: 30, Building: "Annex", Floor: 3},
	}
	result := BuildRoomUtilization(sampleSchedule(), rooms)

	require.Len(t, result, 3)
	byRoom := map[string]models.RoomUtilization{}
	for _, item := range result {
		byRoom[item.Room] = item
	}

	r101 := byRoom["R101"]
	assert.Equal(t, 3, r101.UsedSlots)
	assert.Equal(t, 48, r101.TotalSlots)
	assert.Equal(t, 6, r101.UtilizationPercentage)
	assert.Equal(t, 2, r101.Schedule["Monday"])
	assert.Equal(t, 60, r101.Capacity)
	assert.Equal(t, "Main", r101.Building)

	// Elective classes occupy their room.
	assert.Equal(t, 1, byRoom["R103"].UsedSlots)

	// Rooms absent from the schedule still appear, at zero.
	assert.Zero(t, byRoom["R999"].UsedSlots)
	assert.Zero(t, byRoom["R999"].UtilizationPercentage)
}

func TestBuildRoomUtilizationBounds(t *testing.T) {
	result := BuildRoomUtilization(models.Schedule{}, []models.Classroom{{Room: "R101"}})
	require.Len(t, result, 1)
	assert.Zero(t, result[0].UtilizationPercentage)

	for _, item := range BuildRoomUtilization(sampleSchedule(), []models.Classroom{{Room: "R101"}}) {
		assert.GreaterOrEqual(t, item.UtilizationPercentage, 0)
		assert.LessOrEqual(t, item.UtilizationPercentage, 100)
	}
}

func TestFindRoomConflicts(t *testing.T) {
	schedule := models.Schedule{
		"CSE-A": {
			"Monday": {
				"10:00-11:00": classSlot("Maths", "Dr. Rao", "R101"),
			},
		},
		"CSE-B": {
			"Monday": {
				"10:00-11:00": classSlot("Physics", "Dr. Iyer", "R101"),
			},
		},
		"CSE-C": {
			"Monday": {
				"10:00-11:00": classSlot("Chemistry", "Dr. Menon", "R102"),
			},
		},
	}

	conflicts := FindRoomConflicts(schedule)
	require.Len(t, conflicts, 1)
	conflict := conflicts[0]
	assert.Equal(t, "R101", conflict.Room)
	assert.Equal(t, "Monday", conflict.Day)
	assert.Equal(t, "10:00-11:00", conflict.TimeSlot)
	require.Len(t, conflict.ConflictingClasses, 2)
	assert.Equal(t, "CSE-A", conflict.ConflictingClasses[0].Section)
	assert.Equal(t, "CSE-B", conflict.ConflictingClasses[1].Section)
}

func TestFindRoomConflictsIgnoresRoomlessAndLunch(t *testing.T) {
	schedule := models.Schedule{
		"CSE-A": {
			"Monday": {
				"8:00-9:00": classSlot("Maths", "Dr. Rao", ""),
				"1:00-2:00": lunchSlot(),
			},
		},
		"CSE-B": {
			"Monday": {
				"8:00-9:00": classSlot("Physics", "Dr. Iyer", ""),
				"1:00-2:00": lunchSlot(),
			},
		},
	}
	assert.Empty(t, FindRoomConflicts(schedule))
}

func TestActiveTimeSlotsMorningOnly(t *testing.T) {
	schedule := models.Schedule{
		"CSE-A": {
			"Monday": {
				"8:00-9:00":   classSlot("Maths", "Dr. Rao", "R101"),
				"11:00-12:00": classSlot("Physics", "Dr. Iyer", "R101"),
			},
		},
	}

	active := ActiveTimeSlots(schedule)
	assert.Equal(t, []string{"8:00-9:00", "9:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-1:00"}, active)
}

func TestActiveTimeSlotsAfternoonForcesLunchBlock(t *testing.T) {
	schedule := models.Schedule{
		"CSE-A": {
			"Monday": {
				"8:00-9:00": classSlot("Maths", "Dr. Rao", "R101"),
				"2:00-3:00": classSlot("Lab", "Dr. Iyer", "R102"),
			},
		},
	}

	active := ActiveTimeSlots(schedule)
	assert.Contains(t, active, "1:00-2:00", "lunch must be forced active")
	assert.Contains(t, active, "12:00-1:00")
	assert.Contains(t, active, "2:00-3:00")
	assert.NotContains(t, active, "3:00-4:00")
}

func TestActiveTimeSlotsLunchEntriesDoNotActivateAfternoon(t *testing.T) {
	schedule := models.Schedule{
		"CSE-A": {
			"Monday": {
				"8:00-9:00": classSlot("Maths", "Dr. Rao", "R101"),
				"1:00-2:00": lunchSlot(),
			},
		},
	}

	active := ActiveTimeSlots(schedule)
	assert.NotContains(t, active, "1:00-2:00")
	assert.Len(t, active, models.MorningSlotCount)
}
