package domain

import "time"

// CaseStatus represents the lifecycle state of a verification case.
type CaseStatus string

const (
	CasePending           CaseStatus = "pending"
	CaseDocumentsUploaded CaseStatus = "documents_uploaded"
	CaseUnderReview       CaseStatus = "under_review"
	CaseApproved          CaseStatus = "approved"
	CaseRejected          CaseStatus = "rejected"
	CaseOnHold            CaseStatus = "on_hold"
)

// caseTransitions defines the allowed state machine transitions.
// approved and rejected are terminal; on_hold can resume review.
var caseTransitions = map[CaseStatus][]CaseStatus{
	CasePending:           {CaseDocumentsUploaded},
	CaseDocumentsUploaded: {CaseUnderReview, CaseOnHold},
	CaseUnderReview:       {CaseApproved, CaseRejected, CaseOnHold},
	CaseOnHold:            {CaseUnderReview},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	for _, allowed := range caseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsUploads reports whether applicants may still submit documents for a
// case in this status.
func (s CaseStatus) AcceptsUploads() bool {
	return s == CasePending || s == CaseDocumentsUploaded
}

// ValidCaseStatus reports whether s names a known case status.
func ValidCaseStatus(s string) bool {
	switch CaseStatus(s) {
	case CasePending, CaseDocumentsUploaded, CaseUnderReview, CaseApproved, CaseRejected, CaseOnHold:
		return true
	}
	return false
}

// Case is the aggregate root of the verification workflow: one applicant's
// identity-verification request tracked through its status lifecycle.
type Case struct {
	ID             string     `json:"id" bson:"_id"`
	OrgID          string     `json:"org_id" bson:"org_id"`
	ApplicantName  string     `json:"applicant_name" bson:"applicant_name"`
	ApplicantEmail string     `json:"applicant_email" bson:"applicant_email"`
	Status         CaseStatus `json:"status" bson:"status"`
	RiskScore      *float64   `json:"risk_score" bson:"risk_score,omitempty"`
	AssignedTo     string     `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	DocumentsCount int        `json:"documents_count" bson:"documents_count"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

// DashboardStats is the aggregate snapshot rendered on the operations dashboard.
type DashboardStats struct {
	TotalCases        int64   `json:"total_cases"`
	CasesToday        int64   `json:"cases_today"`
	ApprovalRate      float64 `json:"approval_rate"`
	AvgProcessingTime float64 `json:"avg_processing_time"`
	PendingReviews    int64   `json:"pending_reviews"`
	HighRiskCases     int64   `json:"high_risk_cases"`
}
