package errors

import "net/http"

// ErrorCode is a stable string identifier for a failure category.  Codes are
// part of the API contract: handlers return them verbatim in error responses
// and metrics use them as labels, so values must never be renamed once shipped.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK                 ErrorCode = "OK"
	CodeUnknown            ErrorCode = "COMMON_000"
	CodeInternal           ErrorCode = "COMMON_001"
	CodeInvalidParam       ErrorCode = "COMMON_002"
	CodeUnauthorized       ErrorCode = "COMMON_003"
	CodeForbidden          ErrorCode = "COMMON_004"
	CodeNotFound           ErrorCode = "COMMON_005"
	CodeConflict           ErrorCode = "COMMON_006"
	CodeRateLimit          ErrorCode = "COMMON_007"
	CodeServiceUnavailable ErrorCode = "COMMON_008"
	CodeTimeout            ErrorCode = "COMMON_009"
	CodeSerialization      ErrorCode = "COMMON_010"
	CodeDatabaseError      ErrorCode = "COMMON_011"
	CodeCacheError         ErrorCode = "COMMON_012"
	CodeExternalService    ErrorCode = "COMMON_013"
)

// Catalog module error codes.
const (
	CodeUniversityNotFound ErrorCode = "CAT_001"
	CodeProjectNotFound    ErrorCode = "CAT_002"
	CodePartnerNotFound    ErrorCode = "CAT_003"
	CodeResearcherNotFound ErrorCode = "CAT_004"
	CodeCatalogLoadFailed  ErrorCode = "CAT_005"
	CodeAssetNotFound      ErrorCode = "CAT_006"
)

// Map-view module error codes.
const (
	CodeSessionNotFound  ErrorCode = "MAP_001"
	CodeSessionClosed    ErrorCode = "MAP_002"
	CodeInvalidTab       ErrorCode = "MAP_003"
	CodeInvalidMetric    ErrorCode = "MAP_004"
	CodeSurfaceFailure   ErrorCode = "MAP_005"
	CodeNoFocusedNode    ErrorCode = "MAP_006"
	CodeNetworkDataStale ErrorCode = "MAP_007"
)

// AI search module error codes.
const (
	CodeInferenceFailed     ErrorCode = "AIS_001"
	CodeInferenceSuperseded ErrorCode = "AIS_002"
	CodeEmptyQuery          ErrorCode = "AIS_003"
)

// HTTPStatus maps an ErrorCode to the HTTP status the interfaces layer should
// respond with.  Unmapped codes fall back to 500 so that forgetting a mapping
// fails safe rather than leaking a 200.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam, CodeInvalidTab, CodeInvalidMetric, CodeEmptyQuery:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeUniversityNotFound, CodeProjectNotFound,
		CodePartnerNotFound, CodeResearcherNotFound, CodeAssetNotFound,
		CodeSessionNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeSessionClosed, CodeInferenceSuperseded:
		return http.StatusConflict
	case CodeRateLimit:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeExternalService, CodeInferenceFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
