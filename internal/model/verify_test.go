package model

import (
	"testing"

	"github.com/onsi/gomega"
)

// Serial schedule for the fixture: task 1, then 2 and 3 in parallel, then 4.
func fixtureSchedule() Schedule {
	return Schedule{
		{Start: 0, End: 3},
		{Start: 3, End: 5},
		{Start: 3, End: 5},
		{Start: 5, End: 6},
	}
}

func TestVerifyValidSchedule(t *testing.T) {
	g := gomega.NewWithT(t)
	m := BuildMinimize(fixtureInstance())

	schedule := fixtureSchedule()
	g.Expect(Verify(m, schedule)).To(gomega.Succeed())
	g.Expect(schedule.Makespan()).To(gomega.Equal(int64(6)))
}

func TestVerifyRejectsWrongLength(t *testing.T) {
	g := gomega.NewWithT(t)
	m := BuildMinimize(fixtureInstance())

	g.Expect(Verify(m, fixtureSchedule()[:3])).To(gomega.MatchError(gomega.ContainSubstring("3 tasks")))
}

func TestVerifyRejectsBrokenInterval(t *testing.T) {
	g := gomega.NewWithT(t)
	m := BuildMinimize(fixtureInstance())

	schedule := fixtureSchedule()
	schedule[1].End = 7
	g.Expect(Verify(m, schedule)).To(gomega.MatchError(gomega.ContainSubstring("end 7")))
}

func TestVerifyRejectsNegativeStart(t *testing.T) {
	g := gomega.NewWithT(t)
	m := BuildMinimize(fixtureInstance())

	schedule := fixtureSchedule()
	schedule[0] = TaskTiming{Start: -1, End: 2}
	g.Expect(Verify(m, schedule)).To(gomega.MatchError(gomega.ContainSubstring("starts at -1")))
}

func TestVerifyRejectsPrecedenceViolation(t *testing.T) {
	g := gomega.NewWithT(t)
	m := BuildMinimize(fixtureInstance())

	schedule := fixtureSchedule()
	schedule[3] = TaskTiming{Start: 4, End: 5} // starts before tasks 2 and 3 end
	g.Expect(Verify(m, schedule)).To(gomega.MatchError(gomega.ContainSubstring("predecessor")))
}

func TestVerifyRejectsCapacityViolation(t *testing.T) {
	g := gomega.NewWithT(t)
	m := BuildMinimize(fixtureInstance())

	// Shift task 2 into task 1's window: resource 1 usage becomes 3 > 2.
	schedule := fixtureSchedule()
	schedule[1] = TaskTiming{Start: 1, End: 3}
	m.Precedences = nil // isolate the capacity check
	g.Expect(Verify(m, schedule)).To(gomega.MatchError(gomega.ContainSubstring("over capacity")))
}

func TestVerifyEnforcesBound(t *testing.T) {
	g := gomega.NewWithT(t)
	m := BuildBounded(fixtureInstance(), 5)

	g.Expect(Verify(m, fixtureSchedule())).To(gomega.MatchError(gomega.ContainSubstring("exceeds bound")))

	m = BuildBounded(fixtureInstance(), 6)
	g.Expect(Verify(m, fixtureSchedule())).To(gomega.Succeed())
}
