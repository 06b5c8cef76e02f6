package errors

import (
	"net/http"
	"sort"
)

// Registered codes.
const (
	CodeUnknownToast       = "T001"
	CodeInvalidPosition    = "T002"
	CodeInvalidInteraction = "T003"
	CodeInvalidBody        = "T004"
	CodeValidationFailed   = "T005"
	CodeConfigLoad         = "T006"
	CodeConfigInvalid      = "T007"
	CodeServiceUnavailable = "T008"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	Status   int
}

var registry = map[string]ErrorTemplate{
	// Toast lookups and interactions (T001-T003)
	CodeUnknownToast: {
		Category: CategoryToast,
		Message:  "Unknown toast",
		Detail:   "No live toast has this ID. It may already have been dismissed.",
		Status:   http.StatusNotFound,
	},
	CodeInvalidPosition: {
		Category: CategoryToast,
		Message:  "Invalid position",
		Detail:   "Position must be one of top-left, top-center, top-right, top-full, bottom-left, bottom-center, bottom-right, bottom-full.",
		Status:   http.StatusBadRequest,
	},
	CodeInvalidInteraction: {
		Category: CategoryToast,
		Message:  "Invalid interaction",
		Detail:   "Interaction must be one of pointer-enter, pointer-leave, click, close, action, swipe.",
		Status:   http.StatusBadRequest,
	},

	// Request handling (T004-T005)
	CodeInvalidBody: {
		Category: CategoryRequest,
		Message:  "Invalid request body",
		Detail:   "The request body could not be decoded as JSON.",
		Status:   http.StatusBadRequest,
	},
	CodeValidationFailed: {
		Category: CategoryValidation,
		Message:  "Validation failed",
		Status:   http.StatusUnprocessableEntity,
	},

	// Configuration (T006-T007)
	CodeConfigLoad: {
		Category: CategoryConfig,
		Message:  "Config load failed",
		Detail:   "The configuration file or environment could not be read.",
		Status:   http.StatusInternalServerError,
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Config invalid",
		Status:   http.StatusInternalServerError,
	},

	// Runtime (T008)
	CodeServiceUnavailable: {
		Category: CategoryService,
		Message:  "Toast service unavailable",
		Detail:   "The event loop is stopped or did not answer in time.",
		Status:   http.StatusServiceUnavailable,
	},
}

// GetAllCodes returns all registered codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
