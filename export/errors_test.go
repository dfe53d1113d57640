package export

import (
	"context"
	"testing"

	errorslib "github.com/goliatone/go-errors"
)

func TestAsGoErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		category errorslib.Category
		code     string
	}{
		{NewError(KindValidation, "bad input", nil), errorslib.CategoryValidation, "validation"},
		{NewError(KindNotFound, "missing store", nil), errorslib.CategoryNotFound, "not_found"},
		{NewError(KindMalformed, "required field is null", nil), errorslib.CategoryValidation, "malformed_row"},
		{NewError(KindWrite, "disk full", nil), errorslib.CategoryOperation, "write_failed"},
		{context.DeadlineExceeded, errorslib.CategoryOperation, "timeout"},
		{context.Canceled, errorslib.CategoryOperation, "canceled"},
		{NewError(KindInternal, "boom", nil), errorslib.CategoryInternal, "internal"},
	}

	for _, tc := range cases {
		mapped := AsGoError(tc.err)
		if mapped == nil {
			t.Fatalf("expected mapping for %v", tc.err)
		}
		if mapped.Category != tc.category {
			t.Fatalf("expected category %s, got %s", tc.category, mapped.Category)
		}
		if mapped.TextCode != tc.code {
			t.Fatalf("expected text code %s, got %s", tc.code, mapped.TextCode)
		}
	}
}

func TestAsGoErrorKeepsKind(t *testing.T) {
	kinds := []ErrorKind{
		KindValidation, KindNotFound, KindMalformed,
		KindWrite, KindTimeout, KindCanceled, KindInternal,
	}
	for _, kind := range kinds {
		mapped := AsGoError(NewError(kind, "boom", nil))
		if got := KindFromError(mapped); got != kind {
			t.Fatalf("kind %s lost through mapping, got %s", kind, got)
		}
	}
}

func TestKindFromError(t *testing.T) {
	wrapped := NewError(KindMalformed, "row 12", nil)
	if KindFromError(wrapped) != KindMalformed {
		t.Fatalf("expected malformed kind")
	}
	if KindFromError(context.Canceled) != KindCanceled {
		t.Fatalf("expected canceled kind")
	}
	if KindFromError(nil) != "" {
		t.Fatalf("expected empty kind for nil error")
	}
}
