package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, detailsOK: true},
		{code: CodeConfirmationRequired, status: http.StatusConflict, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, retryable: true, detailsOK: true},
		{code: CodeUpstream, status: http.StatusBadGateway, retryable: true},
		{code: CodeMalformed, status: http.StatusBadGateway, retryable: true},
		{code: CodeRejected, status: http.StatusUnprocessableEntity, detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, retryable: true},
		{code: CodeIdempotency, status: http.StatusConflict},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage == "" {
			t.Fatalf("code %s has no public message", tt.code)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing height")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing height" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "height"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("connection refused")
	wrapped := Wrap(CodeDependency, cause, "calculator unreachable")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestCodeOfAndIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeRejected, "cart full"))
	if CodeOf(err) != CodeRejected {
		t.Fatalf("expected rejected code, got %s", CodeOf(err))
	}
	if !IsCode(err, CodeRejected) {
		t.Fatalf("IsCode should match wrapped typed error")
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatalf("untyped errors should map to internal")
	}
	if IsCode(nil, CodeInternal) {
		t.Fatalf("nil error should never match")
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeNotFound, "no cart")
	if got := As(err); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

type fakeStatusErr struct{ status int }

func (e fakeStatusErr) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e fakeStatusErr) StatusCode() int { return e.status }

func TestDumpCapturesUpstreamStatusAndChain(t *testing.T) {
	err := Wrap(CodeUpstream, fakeStatusErr{status: 502}, "fetch cart")
	dump := Dump(err)

	if dump.Code != CodeUpstream {
		t.Fatalf("expected upstream code, got %s", dump.Code)
	}
	if dump.UpstreamStatus != 502 {
		t.Fatalf("expected upstream status 502, got %d", dump.UpstreamStatus)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected chain of 2, got %v", dump.Chain)
	}
	if _, ok := dump.Fields()["upstream_status"]; !ok {
		t.Fatalf("fields should include upstream status")
	}
}

func TestDumpCapturesPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "quote_exports_pkey", TableName: "quote_exports"}
	dump := Dump(Wrap(CodeInternal, pgErr, "record export"))
	if dump.PGCode != "23505" || dump.PGTable != "quote_exports" {
		t.Fatalf("unexpected pg details %+v", dump)
	}
	if Dump(nil).TopMessage != "" {
		t.Fatalf("nil dump should be empty")
	}
}
