// Package errors provides structured error handling for roadwise.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Corpus loading errors
//   - 2XX: Index construction errors
//   - 3XX: Generation and network errors
//   - 4XX: Query validation errors
//   - 5XX: Search and internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryCorpus indicates corpus loading and filtering errors.
	CategoryCorpus Category = "CORPUS"
	// CategoryIndex indicates index construction errors.
	CategoryIndex Category = "INDEX"
	// CategoryGeneration indicates answer-generation and network errors.
	CategoryGeneration Category = "GENERATION"
	// CategoryValidation indicates query validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates search and unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Corpus errors (100-199)
	ErrCodeCorpusNotFound = "ERR_101_CORPUS_NOT_FOUND"
	ErrCodeCorpusCorrupt  = "ERR_102_CORPUS_CORRUPT"
	ErrCodeCorpusEmpty    = "ERR_103_CORPUS_EMPTY"
	ErrCodeRulesInvalid   = "ERR_104_RULES_INVALID"

	// Index errors (200-299)
	ErrCodeIndexBuild     = "ERR_201_INDEX_BUILD"
	ErrCodeVocabularyEmpty = "ERR_202_VOCABULARY_EMPTY"

	// Generation and network errors (300-399)
	ErrCodeGenerationTimeout  = "ERR_301_GENERATION_TIMEOUT"
	ErrCodeGenerationFailed   = "ERR_302_GENERATION_FAILED"
	ErrCodeNetworkUnavailable = "ERR_303_NETWORK_UNAVAILABLE"
	ErrCodeCircuitOpen        = "ERR_304_CIRCUIT_OPEN"

	// Validation errors (400-499)
	ErrCodeQueryEmpty   = "ERR_401_QUERY_EMPTY"
	ErrCodeQueryTooLong = "ERR_402_QUERY_TOO_LONG"
	ErrCodeInvalidTopK  = "ERR_403_INVALID_TOP_K"

	// Search and internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeSearchFailed = "ERR_502_SEARCH_FAILED"
	ErrCodeNoResults    = "ERR_503_NO_RESULTS"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryCorpus
	case '2':
		return CategoryIndex
	case '3':
		return CategoryGeneration
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryCorpus, CategoryIndex:
		// Setup failures leave nothing to serve queries with.
		return SeverityFatal
	case CategoryGeneration:
		// The pipeline degrades to a context-only answer.
		return SeverityWarning
	default:
		return SeverityError
	}
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeGenerationTimeout, ErrCodeNetworkUnavailable:
		return true
	}
	return false
}
