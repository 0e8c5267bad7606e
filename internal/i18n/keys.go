// internal/i18n/keys.go
package i18n

const (
	LangEnglish    = "en"
	LangPortuguese = "pt_BR"
)

// Translation keys constants
const (
	// Common
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"
	KeyBadRequest    = "error.bad_request"

	// Authentication
	KeyAuthRequired      = "auth.required"
	KeyAuthEmailRequired = "auth.email_required"
	KeyAuthUserNotFound  = "auth.user_not_found"
	KeyAuthLogoutSuccess = "auth.logout_success"
	KeyAuthForbidden     = "auth.forbidden"
	KeyAuthNoBranch      = "auth.no_branch"
	KeyAuthAdminOnly     = "auth.admin_only"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyValidationID      = "validation.invalid_id"

	// Resource outcomes
	KeyNotFound      = "resource.not_found"
	KeyConflict      = "resource.conflict"
	KeyHasDependents = "resource.has_dependents"
	KeyDeleted       = "resource.deleted"

	// Uploads
	KeyUploadMissing = "upload.missing_file"
	KeyUploadInvalid = "upload.invalid_file"
)
