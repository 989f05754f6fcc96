package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeUniversityNotFound, "university UM not found")
	if err.Code != CodeUniversityNotFound {
		t.Errorf("Code = %s, want %s", err.Code, CodeUniversityNotFound)
	}
	if !strings.Contains(err.Error(), "university UM not found") {
		t.Errorf("Error() = %q, missing message", err.Error())
	}
	if err.Stack == "" {
		t.Error("expected stack capture on New")
	}
}

func TestErrorFormatWithDetail(t *testing.T) {
	err := New(CodeInvalidParam, "bad metric").WithDetail("metric=banana")
	want := "[COMMON_002] bad metric: metric=banana"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(nil, CodeDatabaseError, "query failed") != nil {
		t.Error("Wrap(nil, ...) should return nil")
	}
}

func TestWrapPreservesCodeForUnknown(t *testing.T) {
	inner := New(CodeResearcherNotFound, "researcher missing")
	outer := Wrap(inner, CodeUnknown, "while rendering network")
	if outer.Code != CodeResearcherNotFound {
		t.Errorf("Code = %s, want preserved %s", outer.Code, CodeResearcherNotFound)
	}
}

func TestUnwrapChain(t *testing.T) {
	root := fmt.Errorf("connection refused")
	wrapped := Wrap(root, CodeDatabaseError, "catalog load failed")
	if !stderrors.Is(wrapped, root) {
		t.Error("errors.Is should traverse through AppError")
	}
}

func TestIsCodeTraversesChain(t *testing.T) {
	inner := New(CodeSessionNotFound, "no such session")
	outer := Wrap(inner, CodeInternal, "handler failed")
	if !IsCode(outer, CodeSessionNotFound) {
		t.Error("IsCode should find inner code")
	}
	if IsCode(outer, CodeCacheError) {
		t.Error("IsCode matched an absent code")
	}
}

func TestIsNotFoundVariants(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{New(CodeNotFound, "x"), true},
		{New(CodeUniversityNotFound, "x"), true},
		{New(CodeResearcherNotFound, "x"), true},
		{New(CodeSessionNotFound, "x"), true},
		{New(CodeInternal, "x"), false},
		{stderrors.New("plain"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := IsNotFound(tc.err); got != tc.want {
			t.Errorf("IsNotFound(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestGetCode(t *testing.T) {
	if GetCode(nil) != CodeOK {
		t.Error("nil error should yield CodeOK")
	}
	if GetCode(stderrors.New("plain")) != CodeUnknown {
		t.Error("plain error should yield CodeUnknown")
	}
	if GetCode(New(CodeInferenceFailed, "boom")) != CodeInferenceFailed {
		t.Error("GetCode should return the AppError code")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{CodeOK, http.StatusOK},
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeInvalidMetric, http.StatusBadRequest},
		{CodeSessionNotFound, http.StatusNotFound},
		{CodeSessionClosed, http.StatusConflict},
		{CodeInferenceFailed, http.StatusBadGateway},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeTimeout, http.StatusGatewayTimeout},
		{ErrorCode("NEVER_MAPPED"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestWithDetailOnNil(t *testing.T) {
	var e *AppError
	if e.WithDetail("x") != nil {
		t.Error("WithDetail on nil receiver should return nil")
	}
}
