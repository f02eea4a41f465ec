package service

import (
	"testing"

	"github.com/hntrann/casepanel/internal/model"
)

func TestClassifyPartition(t *testing.T) {
	sections := []model.Section{
		{SectionID: "sec-a", Title: "Section A", Enabled: true},
		{SectionID: "sec-b", Title: "Section B", Enabled: true},
	}
	students := []model.Student{
		{StudentID: "stu-1", SectionRef: strPtr("sec-a")},
		{StudentID: "stu-2", SectionRef: strPtr("sec-b")},
		{StudentID: "stu-3", SectionRef: strPtr("other:night class")},
		{StudentID: "stu-4", SectionRef: nil},
		{StudentID: "stu-5", SectionRef: strPtr("sec-gone")}, // dangling ref
	}

	svc := NewRosterService(newMockStudentRepo(), newMockSectionRepo())
	roster := svc.Classify(students, sections)

	if len(roster.Assigned) != 2 {
		t.Fatalf("assigned: got %d students, want 2", len(roster.Assigned))
	}
	if len(roster.OtherCourses) != 1 || roster.OtherCourses[0].StudentID != "stu-3" {
		t.Fatalf("other courses: got %+v, want only stu-3", roster.OtherCourses)
	}
	if len(roster.Unassigned) != 2 {
		t.Fatalf("unassigned: got %d students, want 2 (absent ref and dangling ref)", len(roster.Unassigned))
	}

	// The buckets must partition the input: disjoint, union = all students.
	seen := make(map[string]int)
	for _, bucket := range [][]model.Student{roster.Assigned, roster.OtherCourses, roster.Unassigned} {
		for _, st := range bucket {
			seen[st.StudentID]++
		}
	}
	if len(seen) != len(students) {
		t.Fatalf("partition covers %d students, want %d", len(seen), len(students))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("student %s appears in %d buckets, want exactly 1", id, n)
		}
	}
}

func TestClassifyDisabledSectionStillClaims(t *testing.T) {
	sections := []model.Section{{SectionID: "sec-a", Enabled: false}}
	students := []model.Student{{StudentID: "stu-1", SectionRef: strPtr("sec-a")}}

	svc := NewRosterService(newMockStudentRepo(), newMockSectionRepo())
	roster := svc.Classify(students, sections)

	if len(roster.Assigned) != 1 {
		t.Fatalf("student of a disabled section must stay assigned, got %+v", roster)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	svc := NewRosterService(newMockStudentRepo(), newMockSectionRepo())
	roster := svc.Classify(nil, nil)
	if len(roster.Assigned)+len(roster.OtherCourses)+len(roster.Unassigned) != 0 {
		t.Fatalf("empty input must yield empty roster, got %+v", roster)
	}
}

func TestSectionCounts(t *testing.T) {
	studentRepo := newMockStudentRepo()
	sectionRepo := newMockSectionRepo()
	sectionRepo.Create(&model.Section{SectionID: "sec-a", Enabled: true})
	sectionRepo.Create(&model.Section{SectionID: "sec-b", Enabled: true})
	studentRepo.Create(&model.Student{StudentID: "stu-1", SectionRef: strPtr("sec-a")})
	studentRepo.Create(&model.Student{StudentID: "stu-2", SectionRef: strPtr("sec-a")})
	studentRepo.Create(&model.Student{StudentID: "stu-3", SectionRef: strPtr("other:elsewhere")})

	svc := NewRosterService(studentRepo, sectionRepo)
	counts, err := svc.SectionCounts()
	if err != nil {
		t.Fatalf("SectionCounts: %v", err)
	}
	if counts["sec-a"] != 2 {
		t.Errorf("sec-a count = %d, want 2", counts["sec-a"])
	}
	if counts["sec-b"] != 0 {
		t.Errorf("sec-b count = %d, want 0 (empty sections still listed)", counts["sec-b"])
	}
	if _, ok := counts["other:elsewhere"]; ok {
		t.Errorf("off-platform refs must not appear in section counts")
	}
}

func TestSnapshotBuckets(t *testing.T) {
	studentRepo := newMockStudentRepo()
	sectionRepo := newMockSectionRepo()
	sectionRepo.Create(&model.Section{SectionID: "sec-a", Enabled: true})
	studentRepo.Create(&model.Student{StudentID: "stu-1", FullName: "Ada", SectionRef: strPtr("sec-a")})
	studentRepo.Create(&model.Student{StudentID: "stu-2", FullName: "Ben"})

	svc := NewRosterService(studentRepo, sectionRepo)
	out, err := svc.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(out.Assigned) != 1 || out.Assigned[0].StudentID != "stu-1" {
		t.Errorf("assigned bucket = %+v, want stu-1 only", out.Assigned)
	}
	if len(out.Unassigned) != 1 || out.Unassigned[0].StudentID != "stu-2" {
		t.Errorf("unassigned bucket = %+v, want stu-2 only", out.Unassigned)
	}
}
