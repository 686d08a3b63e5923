package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrOrgNotFound        = errors.New("organization not found")
	ErrForbidden          = errors.New("access forbidden")

	ErrCaseNotFound      = errors.New("case not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCaseClosed        = errors.New("case no longer accepts documents")

	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidDocType   = errors.New("unknown document type")
	ErrDocumentTooLarge = errors.New("document exceeds size limit")
	ErrDuplicateUpload  = errors.New("document already submitted")

	ErrAPIKeyNotFound = errors.New("api key not found")
)
