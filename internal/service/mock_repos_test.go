package service

import (
	"time"

	"github.com/hntrann/casepanel/internal/model"
	"gorm.io/gorm"
)

// In-memory repository doubles. Each mirrors the lookup and ordering
// behavior of its real counterpart closely enough for service tests,
// returning gorm.ErrRecordNotFound on misses.

type mockSectionRepo struct {
	sections map[string]*model.Section
}

func newMockSectionRepo() *mockSectionRepo {
	return &mockSectionRepo{sections: make(map[string]*model.Section)}
}

func (m *mockSectionRepo) Create(section *model.Section) error {
	m.sections[section.SectionID] = section
	return nil
}

func (m *mockSectionRepo) FindByPublicID(sectionID string) (*model.Section, error) {
	if s, ok := m.sections[sectionID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSectionRepo) FindAll() ([]model.Section, error) {
	out := make([]model.Section, 0, len(m.sections))
	for _, s := range m.sections {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSectionRepo) Update(section *model.Section) error {
	m.sections[section.SectionID] = section
	return nil
}

type mockCaseRepo struct {
	cases map[string]*model.Case
}

func newMockCaseRepo() *mockCaseRepo {
	return &mockCaseRepo{cases: make(map[string]*model.Case)}
}

func (m *mockCaseRepo) Create(c *model.Case) error {
	m.cases[c.CaseID] = c
	return nil
}

func (m *mockCaseRepo) FindByPublicID(caseID string) (*model.Case, error) {
	if c, ok := m.cases[caseID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCaseRepo) FindAll() ([]model.Case, error) {
	out := make([]model.Case, 0, len(m.cases))
	for _, c := range m.cases {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCaseRepo) Update(c *model.Case) error {
	m.cases[c.CaseID] = c
	return nil
}

type mockStudentRepo struct {
	students map[string]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) FindByPublicID(studentID string) (*model.Student, error) {
	if s, ok := m.students[studentID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) FindAll() ([]model.Student, error) {
	out := make([]model.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockStudentRepo) Update(student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

type pairKey struct {
	sectionID string
	caseID    string
}

type mockCaseAssignmentRepo struct {
	assignments map[pairKey]*model.CaseAssignment
	nextID      uint
}

func newMockCaseAssignmentRepo() *mockCaseAssignmentRepo {
	return &mockCaseAssignmentRepo{assignments: make(map[pairKey]*model.CaseAssignment), nextID: 1}
}

func (m *mockCaseAssignmentRepo) Create(a *model.CaseAssignment) error {
	a.ID = m.nextID
	m.nextID++
	cp := *a
	m.assignments[pairKey{a.SectionID, a.CaseID}] = &cp
	return nil
}

func (m *mockCaseAssignmentRepo) FindByPair(sectionID, caseID string) (*model.CaseAssignment, error) {
	if a, ok := m.assignments[pairKey{sectionID, caseID}]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCaseAssignmentRepo) FindBySection(sectionID string) ([]model.CaseAssignment, error) {
	var out []model.CaseAssignment
	for k, a := range m.assignments {
		if k.sectionID == sectionID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockCaseAssignmentRepo) FindAll() ([]model.CaseAssignment, error) {
	var out []model.CaseAssignment
	for _, a := range m.assignments {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockCaseAssignmentRepo) Update(a *model.CaseAssignment) error {
	cp := *a
	m.assignments[pairKey{a.SectionID, a.CaseID}] = &cp
	return nil
}

func (m *mockCaseAssignmentRepo) DeactivateAll(sectionID string) error {
	for k, a := range m.assignments {
		if k.sectionID == sectionID {
			a.Active = false
		}
	}
	return nil
}

func (m *mockCaseAssignmentRepo) DeleteByPair(sectionID, caseID string) error {
	delete(m.assignments, pairKey{sectionID, caseID})
	return nil
}

type mockDefaultsRepo struct {
	defaults map[string]*model.ChatOptionsDefault
	// findErr, when set, is returned by every FindByScope call to simulate
	// storage or decoding failures.
	findErr error
}

func newMockDefaultsRepo() *mockDefaultsRepo {
	return &mockDefaultsRepo{defaults: make(map[string]*model.ChatOptionsDefault)}
}

func (m *mockDefaultsRepo) FindByScope(scope string) (*model.ChatOptionsDefault, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if d, ok := m.defaults[scope]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDefaultsRepo) Upsert(def *model.ChatOptionsDefault) error {
	cp := *def
	m.defaults[def.Scope] = &cp
	return nil
}

type mockScenarioRepo struct {
	scenarios map[string]*model.Scenario
	nextID    uint
}

func newMockScenarioRepo() *mockScenarioRepo {
	return &mockScenarioRepo{scenarios: make(map[string]*model.Scenario), nextID: 1}
}

func (m *mockScenarioRepo) Create(scenario *model.Scenario) error {
	scenario.ID = m.nextID
	m.nextID++
	cp := *scenario
	m.scenarios[scenario.ScenarioID] = &cp
	return nil
}

func (m *mockScenarioRepo) FindByPublicID(scenarioID string) (*model.Scenario, error) {
	if s, ok := m.scenarios[scenarioID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScenarioRepo) FindByCase(caseID string) ([]model.Scenario, error) {
	var out []model.Scenario
	for _, s := range m.scenarios {
		if s.CaseID == caseID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockScenarioRepo) Update(scenario *model.Scenario) error {
	cp := *scenario
	m.scenarios[scenario.ScenarioID] = &cp
	return nil
}

type mockScenarioAssignmentRepo struct {
	assignments []model.ScenarioAssignment
	nextID      uint
}

func newMockScenarioAssignmentRepo() *mockScenarioAssignmentRepo {
	return &mockScenarioAssignmentRepo{nextID: 1}
}

func (m *mockScenarioAssignmentRepo) Create(a *model.ScenarioAssignment) error {
	a.ID = m.nextID
	m.nextID++
	m.assignments = append(m.assignments, *a)
	return nil
}

func (m *mockScenarioAssignmentRepo) FindByPair(sectionID, caseID string) ([]model.ScenarioAssignment, error) {
	var out []model.ScenarioAssignment
	for _, a := range m.assignments {
		if a.SectionID == sectionID && a.CaseID == caseID {
			out = append(out, a)
		}
	}
	// position ASC, id ASC
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			if out[j].Position < out[j-1].Position ||
				(out[j].Position == out[j-1].Position && out[j].ID < out[j-1].ID) {
				out[j], out[j-1] = out[j-1], out[j]
			}
		}
	}
	return out, nil
}

func (m *mockScenarioAssignmentRepo) UpdatePosition(id uint, position int) error {
	for i := range m.assignments {
		if m.assignments[i].ID == id {
			m.assignments[i].Position = position
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockScenarioAssignmentRepo) DeleteByKey(sectionID, caseID, scenarioID string) error {
	kept := m.assignments[:0]
	for _, a := range m.assignments {
		if a.SectionID == sectionID && a.CaseID == caseID && a.ScenarioID == scenarioID {
			continue
		}
		kept = append(kept, a)
	}
	m.assignments = kept
	return nil
}

type mockEvaluationRepo struct {
	evaluations []model.Evaluation
	nextID      uint
}

func newMockEvaluationRepo() *mockEvaluationRepo {
	return &mockEvaluationRepo{nextID: 1}
}

func (m *mockEvaluationRepo) Create(evaluation *model.Evaluation) error {
	evaluation.ID = m.nextID
	m.nextID++
	if evaluation.CreatedAt.IsZero() {
		evaluation.CreatedAt = time.Now()
	}
	m.evaluations = append(m.evaluations, *evaluation)
	return nil
}

func (m *mockEvaluationRepo) FindByID(id uint) (*model.Evaluation, error) {
	for _, ev := range m.evaluations {
		if ev.ID == id {
			cp := ev
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) FindByStudents(studentIDs []string, caseID *string) ([]model.Evaluation, error) {
	wanted := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}
	var out []model.Evaluation
	for _, ev := range m.evaluations {
		if !wanted[ev.StudentID] {
			continue
		}
		if caseID != nil && (ev.CaseID == nil || *ev.CaseID != *caseID) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (m *mockEvaluationRepo) FindByStudentCase(studentID, caseID string) ([]model.Evaluation, error) {
	var out []model.Evaluation
	for _, ev := range m.evaluations {
		if ev.StudentID == studentID && ev.CaseID != nil && *ev.CaseID == caseID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *mockEvaluationRepo) LatestForStudentCase(studentID, caseID string) (*model.Evaluation, error) {
	var latest *model.Evaluation
	for i := range m.evaluations {
		ev := &m.evaluations[i]
		if ev.StudentID != studentID || ev.CaseID == nil || *ev.CaseID != caseID {
			continue
		}
		if latest == nil || ev.CreatedAt.After(latest.CreatedAt) ||
			(ev.CreatedAt.Equal(latest.CreatedAt) && ev.ID > latest.ID) {
			latest = ev
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *mockEvaluationRepo) SetAllowRechat(id uint, allow bool) error {
	for i := range m.evaluations {
		if m.evaluations[i].ID == id {
			m.evaluations[i].AllowRechat = allow
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }
