package domain

import "time"

// DocType enumerates the identity documents an applicant may submit.
type DocType string

const (
	DocPassport       DocType = "passport"
	DocNationalID     DocType = "national_id"
	DocDriversLicense DocType = "drivers_license"
	DocUtilityBill    DocType = "utility_bill"
	DocBankStatement  DocType = "bank_statement"
	DocSelfie         DocType = "selfie"
	DocOther          DocType = "other"
)

// ValidDocType reports whether t names a known document type.
func ValidDocType(t string) bool {
	switch DocType(t) {
	case DocPassport, DocNationalID, DocDriversLicense, DocUtilityBill,
		DocBankStatement, DocSelfie, DocOther:
		return true
	}
	return false
}

// DocumentStatus represents the processing state of an uploaded document.
type DocumentStatus string

const (
	DocumentUploading  DocumentStatus = "uploading"
	DocumentProcessing DocumentStatus = "processing"
	DocumentCompleted  DocumentStatus = "completed"
	DocumentFailed     DocumentStatus = "failed"
)

var documentTransitions = map[DocumentStatus][]DocumentStatus{
	DocumentUploading:  {DocumentProcessing, DocumentFailed},
	DocumentProcessing: {DocumentCompleted, DocumentFailed},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	for _, allowed := range documentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Document is one file submitted for a case, stored in the object store and
// tracked through the verification pipeline.
type Document struct {
	ID               string         `json:"id" bson:"_id"`
	CaseID           string         `json:"case_id" bson:"case_id"`
	DocType          DocType        `json:"doc_type" bson:"doc_type"`
	StoragePath      string         `json:"storage_path" bson:"storage_path"`
	OriginalFilename string         `json:"original_filename" bson:"original_filename"`
	FileSize         int64          `json:"file_size" bson:"file_size"`
	Status           DocumentStatus `json:"status" bson:"status"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" bson:"updated_at"`
}
