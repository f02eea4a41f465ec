package service

import (
	"errors"
	"testing"
	"time"

	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/model"
)

// stubEvaluator replaces the Gemini-backed evaluator in tests.
type stubEvaluator struct {
	verdict *TranscriptEvaluation
	err     error

	lastModel string
}

func (s *stubEvaluator) ScoreTranscript(modelID string, courseCase *model.Case, scenario *model.Scenario, transcript string) (*TranscriptEvaluation, error) {
	s.lastModel = modelID
	if s.err != nil {
		return nil, s.err
	}
	return s.verdict, nil
}

type evaluationFixture struct {
	studentRepo    *mockStudentRepo
	caseRepo       *mockCaseRepo
	scenarioRepo   *mockScenarioRepo
	evaluationRepo *mockEvaluationRepo
	defaultsRepo   *mockDefaultsRepo
	llm            *stubEvaluator
	svc            EvaluationService
}

func newEvaluationFixture(t *testing.T) *evaluationFixture {
	t.Helper()
	f := &evaluationFixture{
		studentRepo:    newMockStudentRepo(),
		caseRepo:       newMockCaseRepo(),
		scenarioRepo:   newMockScenarioRepo(),
		evaluationRepo: newMockEvaluationRepo(),
		defaultsRepo:   newMockDefaultsRepo(),
		llm: &stubEvaluator{verdict: &TranscriptEvaluation{
			Score:   11,
			Summary: "Solid questioning, weak close.",
			Criteria: []CriterionScore{
				{Criterion: "preparation", Score: 4, Comment: "well prepared"},
			},
		}},
	}
	assignmentRepo := newMockCaseAssignmentRepo()
	sectionRepo := newMockSectionRepo()
	sectionRepo.Create(&model.Section{SectionID: "sec-a", Enabled: true})
	assignmentRepo.Create(&model.CaseAssignment{SectionID: "sec-a", CaseID: "case-1"})
	options := NewOptionsService(assignmentRepo, f.defaultsRepo, sectionRepo)
	f.svc = NewEvaluationService(f.studentRepo, f.caseRepo, f.scenarioRepo, f.evaluationRepo, options, f.llm)

	f.studentRepo.Create(&model.Student{StudentID: "stu-1", FullName: "Ada", SectionRef: strPtr("sec-a")})
	f.caseRepo.Create(&model.Case{CaseID: "case-1", Title: "Supply Chain", Enabled: true})
	return f
}

func submitRequest() dto.EvaluationSubmitDTO {
	return dto.EvaluationSubmitDTO{
		StudentID:  "stu-1",
		SectionID:  "sec-a",
		CaseID:     "case-1",
		Transcript: "student: hello\nprotagonist: hello",
		Hints:      intPtr(2),
	}
}

func TestMarkFinished(t *testing.T) {
	f := newEvaluationFixture(t)
	at := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	if err := f.svc.MarkFinished(dto.ChatFinishedDTO{StudentID: "stu-1", FinishedAt: &at}); err != nil {
		t.Fatalf("MarkFinished: %v", err)
	}
	student, _ := f.studentRepo.FindByPublicID("stu-1")
	if student.FinishedAt == nil || !student.FinishedAt.Equal(at) {
		t.Fatalf("finished_at = %v, want %v", student.FinishedAt, at)
	}

	if err := f.svc.MarkFinished(dto.ChatFinishedDTO{StudentID: "stu-missing"}); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestEvaluateAppendsRow(t *testing.T) {
	f := newEvaluationFixture(t)

	resp, err := f.svc.Evaluate(submitRequest())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if resp.Score == nil || *resp.Score != 11 {
		t.Errorf("score = %v, want 11", resp.Score)
	}
	if resp.Hints == nil || *resp.Hints != 2 {
		t.Errorf("hints = %v, want 2", resp.Hints)
	}
	if resp.AllowRechat {
		t.Error("allow_rechat must default from the resolved options (built-in: false)")
	}
	if f.llm.lastModel != model.BuiltinChatOptions().EvaluatorModel {
		t.Errorf("evaluator model = %q, want the resolved one", f.llm.lastModel)
	}

	evs, _ := f.evaluationRepo.FindByStudentCase("stu-1", "case-1")
	if len(evs) != 1 {
		t.Fatalf("stored rows = %d, want 1", len(evs))
	}
	if evs[0].Criteria == "" {
		t.Error("criteria feedback must be stored with the row")
	}
}

func TestEvaluateRechatDefaultFromOptions(t *testing.T) {
	f := newEvaluationFixture(t)
	opts := model.BuiltinChatOptions()
	opts.AllowRechat = true
	f.defaultsRepo.Upsert(&model.ChatOptionsDefault{Scope: model.ScopeGlobal, Options: opts})

	resp, err := f.svc.Evaluate(submitRequest())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !resp.AllowRechat {
		t.Error("allow_rechat must inherit true from the global default")
	}
}

func TestEvaluateScoringFailureWritesNothing(t *testing.T) {
	f := newEvaluationFixture(t)
	f.llm.err = errors.New("model overloaded")

	if _, err := f.svc.Evaluate(submitRequest()); err == nil {
		t.Fatal("a scoring failure must surface as an error")
	}
	evs, _ := f.evaluationRepo.FindByStudentCase("stu-1", "case-1")
	if len(evs) != 0 {
		t.Fatalf("stored rows = %d, want 0 after a scoring failure", len(evs))
	}
}

func TestEvaluateUnknownScenario(t *testing.T) {
	f := newEvaluationFixture(t)
	req := submitRequest()
	req.ScenarioID = strPtr("scn-missing")

	if _, err := f.svc.Evaluate(req); !errors.Is(err, ErrScenarioNotFound) {
		t.Fatalf("err = %v, want ErrScenarioNotFound", err)
	}
}

func TestSetAllowRechat(t *testing.T) {
	f := newEvaluationFixture(t)
	resp, err := f.svc.Evaluate(submitRequest())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if err := f.svc.SetAllowRechat(resp.ID, true); err != nil {
		t.Fatalf("SetAllowRechat: %v", err)
	}
	stored, _ := f.evaluationRepo.FindByID(resp.ID)
	if !stored.AllowRechat {
		t.Error("allow_rechat not persisted")
	}

	if err := f.svc.SetAllowRechat(9999, true); !errors.Is(err, ErrEvaluationNotFound) {
		t.Fatalf("err = %v, want ErrEvaluationNotFound", err)
	}
}
