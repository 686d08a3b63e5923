package domain

import "time"

// CheckType enumerates the verification checks run against a document.
type CheckType string

const (
	CheckOCRExtraction   CheckType = "ocr_extraction"
	CheckDocAuthenticity CheckType = "doc_authenticity"
	CheckFaceMatch       CheckType = "face_match"
	CheckLiveness        CheckType = "liveness"
	CheckWatchlist       CheckType = "watchlist"
	CheckRiskScoring     CheckType = "risk_scoring"
)

// VerificationResult is the outcome of a single check.
type VerificationResult string

const (
	ResultPass         VerificationResult = "pass"
	ResultFail         VerificationResult = "fail"
	ResultPending      VerificationResult = "pending"
	ResultReviewNeeded VerificationResult = "review_needed"
)

// VerificationCheck records the outcome of one check on one document.
type VerificationCheck struct {
	ID         string             `json:"id" bson:"_id"`
	CaseID     string             `json:"case_id" bson:"case_id"`
	DocumentID string             `json:"document_id" bson:"document_id"`
	CheckType  CheckType          `json:"check_type" bson:"check_type"`
	Result     VerificationResult `json:"result" bson:"result"`
	Details    map[string]any     `json:"details" bson:"details,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
