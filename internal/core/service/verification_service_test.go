package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

type stubRunner struct {
	outcomes []ports.CheckOutcome
	err      error
	calls    int
}

func (r *stubRunner) Run(_ context.Context, _ ports.VerificationJob) ([]ports.CheckOutcome, error) {
	r.calls++
	return r.outcomes, r.err
}

func passOutcomes() []ports.CheckOutcome {
	return []ports.CheckOutcome{
		{CheckType: domain.CheckOCRExtraction, Result: domain.ResultPass},
		{CheckType: domain.CheckDocAuthenticity, Result: domain.ResultPass},
		{CheckType: domain.CheckWatchlist, Result: domain.ResultPass},
		{CheckType: domain.CheckRiskScoring, Result: domain.ResultPass},
	}
}

func verificationFixture(runner ports.CheckRunner) (*stubCaseRepo, *stubDocumentRepo, *stubCheckRepo, *stubDedup, ports.VerificationService) {
	cases := newStubCaseRepo()
	cases.cases["c1"] = &domain.Case{ID: "c1", OrgID: "org-1", Status: domain.CaseDocumentsUploaded}
	docs := newStubDocumentRepo()
	docs.docs["d1"] = &domain.Document{ID: "d1", CaseID: "c1", DocType: domain.DocPassport, Status: domain.DocumentProcessing}
	checks := &stubCheckRepo{}
	dedup := newStubDedup()
	svc := NewVerificationService(docs, cases, checks, runner, dedup, zerolog.Nop())
	return cases, docs, checks, dedup, svc
}

func job() ports.VerificationJob {
	return ports.VerificationJob{CaseID: "c1", DocumentID: "d1", DocType: "passport"}
}

func TestVerificationService_Process_AllPass(t *testing.T) {
	cases, docs, checks, _, svc := verificationFixture(&stubRunner{outcomes: passOutcomes()})

	if err := svc.Process(context.Background(), job()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if docs.docs["d1"].Status != domain.DocumentCompleted {
		t.Fatalf("expected completed document, got %s", docs.docs["d1"].Status)
	}
	if len(checks.checks) != 4 {
		t.Fatalf("expected 4 check rows, got %d", len(checks.checks))
	}
	c := cases.cases["c1"]
	if c.RiskScore == nil || *c.RiskScore != 0 {
		t.Fatalf("expected risk score 0, got %v", c.RiskScore)
	}
	if c.Status != domain.CaseUnderReview {
		t.Fatalf("last document done should move case to under_review, got %s", c.Status)
	}
}

func TestVerificationService_Process_FailedCheck(t *testing.T) {
	outcomes := passOutcomes()
	outcomes[1].Result = domain.ResultFail
	outcomes[2].Result = domain.ResultReviewNeeded
	cases, docs, _, _, svc := verificationFixture(&stubRunner{outcomes: outcomes})

	if err := svc.Process(context.Background(), job()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if docs.docs["d1"].Status != domain.DocumentFailed {
		t.Fatalf("a failed check should fail the document, got %s", docs.docs["d1"].Status)
	}
	// One fail (1.0) + one review_needed (0.5) over four checks.
	want := 100 * 1.5 / 4
	if got := cases.cases["c1"].RiskScore; got == nil || *got != want {
		t.Fatalf("expected risk score %.2f, got %v", want, got)
	}
}

func TestVerificationService_Process_RunnerError(t *testing.T) {
	_, docs, checks, _, svc := verificationFixture(&stubRunner{err: errors.New("engine offline")})

	if err := svc.Process(context.Background(), job()); err == nil {
		t.Fatalf("expected error from runner failure")
	}
	if docs.docs["d1"].Status != domain.DocumentFailed {
		t.Fatalf("runner failure should mark document failed, got %s", docs.docs["d1"].Status)
	}
	if len(checks.checks) != 0 {
		t.Fatalf("no check rows expected on runner failure, got %d", len(checks.checks))
	}
}

func TestVerificationService_Process_DuplicateJobSkipped(t *testing.T) {
	runner := &stubRunner{outcomes: passOutcomes()}
	_, _, checks, _, svc := verificationFixture(runner)

	if err := svc.Process(context.Background(), job()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := svc.Process(context.Background(), job()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("expected runner invoked once, got %d", runner.calls)
	}
	if len(checks.checks) != 4 {
		t.Fatalf("re-enqueued job must not duplicate check rows, got %d", len(checks.checks))
	}
}

func TestVerificationService_Process_SkipsNonProcessing(t *testing.T) {
	runner := &stubRunner{outcomes: passOutcomes()}
	_, docs, _, _, svc := verificationFixture(runner)
	docs.docs["d1"].Status = domain.DocumentCompleted

	if err := svc.Process(context.Background(), job()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if runner.calls != 0 {
		t.Fatalf("completed document must not be re-run")
	}
}

func TestVerificationService_Process_WaitsForPendingSiblings(t *testing.T) {
	cases, docs, _, _, svc := verificationFixture(&stubRunner{outcomes: passOutcomes()})
	docs.docs["d2"] = &domain.Document{ID: "d2", CaseID: "c1", DocType: domain.DocSelfie, Status: domain.DocumentProcessing}

	if err := svc.Process(context.Background(), job()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if cases.cases["c1"].Status != domain.CaseDocumentsUploaded {
		t.Fatalf("case must not advance while a sibling is pending, got %s", cases.cases["c1"].Status)
	}
}

func TestHeuristicRunner_Deterministic(t *testing.T) {
	r := NewHeuristicRunner()
	j := ports.VerificationJob{CaseID: "c1", DocumentID: "d-stable", DocType: "selfie"}

	first, err := r.Run(context.Background(), j)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	second, _ := r.Run(context.Background(), j)
	if len(first) != 3 {
		t.Fatalf("selfie should get 3 checks, got %d", len(first))
	}
	for i := range first {
		if first[i].Result != second[i].Result {
			t.Fatalf("outcomes must be deterministic for the same document")
		}
	}

	unknown, _ := r.Run(context.Background(), ports.VerificationJob{DocumentID: "d2", DocType: "mystery"})
	if len(unknown) != len(checksByDocType[domain.DocOther]) {
		t.Fatalf("unknown doc type should fall back to the default check set")
	}
}
