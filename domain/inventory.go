package domain

import (
	"errors"
	"fmt"
)

var (
	MessageSuccessScanProduct       = "product label audited successfully"
	MessageSuccessGetInventory      = "inventory retrieved successfully"
	MessageSuccessGetInventoryItem  = "inventory item retrieved successfully"
	MessageSuccessDeleteItem        = "inventory item deleted successfully"
	MessageSuccessSubmitFeedback    = "audit correction logged"
	MessageSuccessGetDashboardStats = "dashboard statistics retrieved successfully"
	MessageSuccessEmailReport       = "audit report sent successfully"
	MessageSuccessGetFeedback       = "feedback retrieved successfully"

	MessageFailedScanProduct       = "Audit Failed: ensure the product label is clearly legible"
	MessageFailedSafetyBlock       = "Safety Block: the audit service declined this image, please resubmit a different photo"
	MessageFailedClassification    = "audit service unavailable, please try again"
	MessageFailedInvalidImage      = "image must be a JPEG or PNG photo"
	MessageFailedGetInventory      = "failed to retrieve inventory"
	MessageFailedGetInventoryItem  = "failed to retrieve inventory item"
	MessageFailedDeleteItem        = "failed to delete inventory item"
	MessageFailedSubmitFeedback    = "failed to submit feedback"
	MessageFailedGetDashboardStats = "failed to retrieve dashboard statistics"
	MessageFailedExportReport      = "could not generate report"
	MessageFailedEmailReport       = "failed to send audit report"
	MessageFailedGetFeedback       = "failed to retrieve feedback"

	ErrInventoryItemNotFound  = errors.New("inventory item not found")
	ErrUnauthorizedAccess     = errors.New("unauthorized access to inventory item")
	ErrInvalidImageFormat     = errors.New("invalid image format")
	ErrEmptyInventory         = errors.New("inventory is empty")
	ErrClassificationFailure  = errors.New("classification failed")
	ErrContentSafetyRejection = errors.New("classification rejected by content safety filter")

	ErrSchemaValidation       = errors.New("schema validation failed")
	ErrMissingField           = errors.New("missing required field")
	ErrWrongType              = errors.New("field has wrong type")
	ErrEmptyValue             = errors.New("field must not be empty")
	ErrInvalidEnumValue       = errors.New("invalid enum value")
	ErrMalformedHealthProfile = errors.New("malformed health profile")
)

// SchemaViolation names the rule a classifier payload broke.
type SchemaViolation string

const (
	ViolationMissingField           SchemaViolation = "MissingField"
	ViolationWrongType              SchemaViolation = "WrongType"
	ViolationEmptyValue             SchemaViolation = "EmptyValue"
	ViolationInvalidEnumValue       SchemaViolation = "InvalidEnumValue"
	ViolationMalformedHealthProfile SchemaViolation = "MalformedHealthProfile"
)

// SchemaValidationError reports the first field of a classifier payload that
// did not match the audit schema. Field is a path like "detailedChecklist[1].status".
type SchemaValidationError struct {
	Field string
	Value any
	Kind  SchemaViolation
}

func (e *SchemaValidationError) Error() string {
	switch e.Kind {
	case ViolationInvalidEnumValue:
		return fmt.Sprintf("InvalidEnumValue(%q, %q)", e.Field, fmt.Sprint(e.Value))
	case ViolationMalformedHealthProfile:
		return fmt.Sprintf("MalformedHealthProfile(%q)", e.Field)
	case ViolationMissingField:
		return fmt.Sprintf("missing required field %q", e.Field)
	case ViolationEmptyValue:
		return fmt.Sprintf("field %q must not be empty", e.Field)
	default:
		return fmt.Sprintf("field %q has wrong type %T", e.Field, e.Value)
	}
}

func (e *SchemaValidationError) Unwrap() []error {
	return []error{ErrSchemaValidation, e.kindErr()}
}

func (e *SchemaValidationError) kindErr() error {
	switch e.Kind {
	case ViolationMissingField:
		return ErrMissingField
	case ViolationEmptyValue:
		return ErrEmptyValue
	case ViolationInvalidEnumValue:
		return ErrInvalidEnumValue
	case ViolationMalformedHealthProfile:
		return ErrMalformedHealthProfile
	default:
		return ErrWrongType
	}
}

// InvalidEnumValue builds the error returned for an out-of-set enum literal.
func InvalidEnumValue(field string, value any) *SchemaValidationError {
	return &SchemaValidationError{Field: field, Value: value, Kind: ViolationInvalidEnumValue}
}

// IsRetryable reports whether the same scan may succeed if submitted again unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrClassificationFailure)
}

type (
	SubmitFeedbackRequest struct {
		Type    string `json:"type" validate:"required,oneof='Incorrect Expiry' 'Missed Allergen' 'Wrong Regulation' Other"`
		Comment string `json:"comment" validate:"max=2000"`
	}

	EmailReportRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	InventoryResponse struct {
		Items []InventoryItem `json:"items"`
		Total int             `json:"total"`
	}
)

// ScanProductRequest carries a label photo as base64 or a data URL when the
// client does not upload a multipart file.
type ScanProductRequest struct {
	Image string `json:"image" validate:"required"`
}
