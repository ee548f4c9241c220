package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL; clients map these to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationInvalidRegion = "VALIDATION_INVALID_REGION"

	// ==================== Vehicle registry (VEHICLE_) ====================
	VehicleNotFound        = "VEHICLE_NOT_FOUND"
	VehicleChassisExists   = "VEHICLE_CHASSIS_EXISTS"
	VehicleChassisRequired = "VEHICLE_CHASSIS_REQUIRED"
	VehicleRegionRequired  = "VEHICLE_REGION_REQUIRED"

	// ==================== Plate allocation (PLATE_) ====================
	PlateRegionExhausted = "PLATE_REGION_EXHAUSTED"
	PlateConflict        = "PLATE_CONFLICT"

	// ==================== Documents (DOCUMENT_) ====================
	DocumentNotFound     = "DOCUMENT_NOT_FOUND"
	DocumentInvalidType  = "DOCUMENT_INVALID_TYPE"
	DocumentUploadFailed = "DOCUMENT_UPLOAD_FAILED"

	// ==================== Print history (PRINT_) ====================
	PrintInvalidType   = "PRINT_INVALID_TYPE"
	PrintInvalidStatus = "PRINT_INVALID_STATUS"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalStorageError  = "INTERNAL_STORAGE_ERROR"
)
