package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/hntrann/casepanel/internal/model"
)

type optionsFixture struct {
	assignmentRepo *mockCaseAssignmentRepo
	defaultsRepo   *mockDefaultsRepo
	sectionRepo    *mockSectionRepo
	svc            OptionsService
}

func newOptionsFixture(t *testing.T) *optionsFixture {
	t.Helper()
	f := &optionsFixture{
		assignmentRepo: newMockCaseAssignmentRepo(),
		defaultsRepo:   newMockDefaultsRepo(),
		sectionRepo:    newMockSectionRepo(),
	}
	f.svc = NewOptionsService(f.assignmentRepo, f.defaultsRepo, f.sectionRepo)
	f.sectionRepo.Create(&model.Section{SectionID: "sec-a", Enabled: true})
	f.assignmentRepo.Create(&model.CaseAssignment{SectionID: "sec-a", CaseID: "case-1"})
	return f
}

func completeOptions(chatModel string) model.ChatOptions {
	return model.ChatOptions{
		ChatModel:      chatModel,
		EvaluatorModel: "gemini-1.5-pro",
		Temperature:    0.5,
		MaxMessages:    30,
		HintsEnabled:   true,
	}
}

func TestResolveFallsThroughToBuiltin(t *testing.T) {
	f := newOptionsFixture(t)

	opts, source, err := f.svc.ResolveEffective("sec-a", "case-1")
	if err != nil {
		t.Fatalf("ResolveEffective: %v", err)
	}
	if source != OptionsSourceBuiltIn {
		t.Fatalf("source = %q, want %q", source, OptionsSourceBuiltIn)
	}
	if opts != model.BuiltinChatOptions() {
		t.Fatalf("opts = %+v, want built-in record", opts)
	}
}

func TestResolveChainPrecedence(t *testing.T) {
	f := newOptionsFixture(t)
	f.defaultsRepo.Upsert(&model.ChatOptionsDefault{Scope: model.ScopeGlobal, Options: completeOptions("global-model")})

	_, source, err := f.svc.ResolveEffective("sec-a", "case-1")
	if err != nil {
		t.Fatalf("ResolveEffective: %v", err)
	}
	if source != OptionsSourceGlobalDefault {
		t.Fatalf("source = %q, want global default", source)
	}

	f.defaultsRepo.Upsert(&model.ChatOptionsDefault{Scope: "sec-a", Options: completeOptions("section-model")})
	opts, source, err := f.svc.ResolveEffective("sec-a", "case-1")
	if err != nil {
		t.Fatalf("ResolveEffective: %v", err)
	}
	if source != OptionsSourceSectionDefault || opts.ChatModel != "section-model" {
		t.Fatalf("got (%q, %q), want section default to shadow global", opts.ChatModel, source)
	}

	if err := f.svc.SetCustom("sec-a", "case-1", completeOptions("custom-model")); err != nil {
		t.Fatalf("SetCustom: %v", err)
	}
	opts, source, err = f.svc.ResolveEffective("sec-a", "case-1")
	if err != nil {
		t.Fatalf("ResolveEffective: %v", err)
	}
	if source != OptionsSourceCustom || opts.ChatModel != "custom-model" {
		t.Fatalf("got (%q, %q), want custom override to win", opts.ChatModel, source)
	}
}

func TestClearCustomRestoresInheritance(t *testing.T) {
	f := newOptionsFixture(t)
	f.defaultsRepo.Upsert(&model.ChatOptionsDefault{Scope: "sec-a", Options: completeOptions("v1")})
	if err := f.svc.SetCustom("sec-a", "case-1", completeOptions("custom")); err != nil {
		t.Fatalf("SetCustom: %v", err)
	}

	if err := f.svc.ClearCustom("sec-a", "case-1"); err != nil {
		t.Fatalf("ClearCustom: %v", err)
	}

	// After reverting, later edits to the section default must flow through.
	f.defaultsRepo.Upsert(&model.ChatOptionsDefault{Scope: "sec-a", Options: completeOptions("v2")})
	opts, source, err := f.svc.ResolveEffective("sec-a", "case-1")
	if err != nil {
		t.Fatalf("ResolveEffective: %v", err)
	}
	if source != OptionsSourceSectionDefault || opts.ChatModel != "v2" {
		t.Fatalf("got (%q, %q), want the edited section default", opts.ChatModel, source)
	}
}

func TestIncompleteDefaultFallsBack(t *testing.T) {
	f := newOptionsFixture(t)
	broken := completeOptions("")
	f.defaultsRepo.Upsert(&model.ChatOptionsDefault{Scope: "sec-a", Options: broken})
	f.defaultsRepo.Upsert(&model.ChatOptionsDefault{Scope: model.ScopeGlobal, Options: completeOptions("global-model")})

	opts, source, err := f.svc.ResolveEffective("sec-a", "case-1")
	if err != nil {
		t.Fatalf("an incomplete default must degrade, not fail: %v", err)
	}
	if source != OptionsSourceGlobalDefault || opts.ChatModel != "global-model" {
		t.Fatalf("got (%q, %q), want fallback past the incomplete section default", opts.ChatModel, source)
	}
}

func TestCorruptDefaultFallsBack(t *testing.T) {
	f := newOptionsFixture(t)
	f.defaultsRepo.findErr = fmt.Errorf("decoding options: %w", &json.SyntaxError{Offset: 3})

	opts, source, err := f.svc.ResolveEffective("sec-a", "case-1")
	if err != nil {
		t.Fatalf("a corrupt default must degrade, not fail: %v", err)
	}
	if source != OptionsSourceBuiltIn {
		t.Fatalf("source = %q, want built-in when every stored default is unreadable", source)
	}
	if opts != model.BuiltinChatOptions() {
		t.Fatalf("opts = %+v, want built-in record", opts)
	}
}

func TestResolveStoreErrorPropagates(t *testing.T) {
	f := newOptionsFixture(t)
	f.defaultsRepo.findErr = errors.New("connection refused")

	if _, _, err := f.svc.ResolveEffective("sec-a", "case-1"); err == nil {
		t.Fatal("a genuine store failure must propagate, not silently degrade")
	}
}

func TestResolveUnknownAssignment(t *testing.T) {
	f := newOptionsFixture(t)
	if _, _, err := f.svc.ResolveEffective("sec-a", "case-missing"); !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("err = %v, want ErrAssignmentNotFound", err)
	}
}

func TestSaveAsDefaultScopeValidation(t *testing.T) {
	f := newOptionsFixture(t)

	if err := f.svc.SaveAsDefault("sec-missing", completeOptions("m")); !errors.Is(err, ErrBadDefaultScope) {
		t.Fatalf("err = %v, want ErrBadDefaultScope", err)
	}
	if err := f.svc.SaveAsDefault("sec-a", completeOptions("m")); err != nil {
		t.Fatalf("SaveAsDefault for a real section: %v", err)
	}
	if err := f.svc.SaveAsDefault(model.ScopeGlobal, completeOptions("m")); err != nil {
		t.Fatalf("SaveAsDefault for global scope: %v", err)
	}
}

func TestApplyToSectionCasesCopiesSnapshots(t *testing.T) {
	f := newOptionsFixture(t)
	f.assignmentRepo.Create(&model.CaseAssignment{SectionID: "sec-a", CaseID: "case-2"})
	f.assignmentRepo.Create(&model.CaseAssignment{SectionID: "sec-b", CaseID: "case-1"})
	f.defaultsRepo.Upsert(&model.ChatOptionsDefault{Scope: model.ScopeGlobal, Options: completeOptions("v1")})

	updated, err := f.svc.ApplyToSectionCases("sec-a", "case-1")
	if err != nil {
		t.Fatalf("ApplyToSectionCases: %v", err)
	}
	if updated != 2 {
		t.Fatalf("updated = %d, want 2 (only sec-a assignments)", updated)
	}

	// Each target received a snapshot, so a later edit to the default must
	// not retroactively change it.
	f.defaultsRepo.Upsert(&model.ChatOptionsDefault{Scope: model.ScopeGlobal, Options: completeOptions("v2")})
	opts, source, err := f.svc.ResolveEffective("sec-a", "case-2")
	if err != nil {
		t.Fatalf("ResolveEffective: %v", err)
	}
	if source != OptionsSourceCustom || opts.ChatModel != "v1" {
		t.Fatalf("got (%q, %q), want the copied v1 snapshot as a custom override", opts.ChatModel, source)
	}

	// The other section was untouched and keeps inheriting.
	opts, source, err = f.svc.ResolveEffective("sec-b", "case-1")
	if err != nil {
		t.Fatalf("ResolveEffective: %v", err)
	}
	if source != OptionsSourceGlobalDefault || opts.ChatModel != "v2" {
		t.Fatalf("got (%q, %q), want sec-b still on the live global default", opts.ChatModel, source)
	}
}

func TestApplyToAllSectionsCoversEveryAssignment(t *testing.T) {
	f := newOptionsFixture(t)
	f.assignmentRepo.Create(&model.CaseAssignment{SectionID: "sec-a", CaseID: "case-2"})
	f.assignmentRepo.Create(&model.CaseAssignment{SectionID: "sec-b", CaseID: "case-1"})
	if err := f.svc.SetCustom("sec-a", "case-1", completeOptions("source")); err != nil {
		t.Fatalf("SetCustom: %v", err)
	}

	updated, err := f.svc.ApplyToAllSections("sec-a", "case-1")
	if err != nil {
		t.Fatalf("ApplyToAllSections: %v", err)
	}
	if updated != 3 {
		t.Fatalf("updated = %d, want all 3 assignments", updated)
	}
	opts, source, err := f.svc.ResolveEffective("sec-b", "case-1")
	if err != nil {
		t.Fatalf("ResolveEffective: %v", err)
	}
	if source != OptionsSourceCustom || opts.ChatModel != "source" {
		t.Fatalf("got (%q, %q), want the copied source record", opts.ChatModel, source)
	}
}
