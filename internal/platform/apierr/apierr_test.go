package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestTaxonomySentinels(t *testing.T) {
	cases := []struct {
		err    *Error
		target error
		status int
	}{
		{InvalidRequest("prompt or files required"), ErrInvalidRequest, http.StatusBadRequest},
		{UpstreamFormat(errors.New("bad json"), "{"), ErrUpstreamFormat, http.StatusInternalServerError},
		{GenerationFailed(errors.New("boom")), ErrGenerationFailed, http.StatusInternalServerError},
		{SynthesisFailed(errors.New("boom")), ErrSynthesisFailed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("handler: %w", tc.err)
		if !errors.Is(wrapped, tc.target) {
			t.Fatalf("%s: errors.Is(%v) = false", tc.err.Code, tc.target)
		}
		if got := From(wrapped); got.Status != tc.status {
			t.Fatalf("%s: status=%d want %d", tc.err.Code, got.Status, tc.status)
		}
	}
}

func TestFromUnknownError(t *testing.T) {
	got := From(errors.New("plain"))
	if got.Code != CodeInternal || got.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected: %+v", got)
	}
	if From(nil) != nil {
		t.Fatalf("From(nil) should be nil")
	}
}

func TestUpstreamFormatKeepsRaw(t *testing.T) {
	e := UpstreamFormat(errors.New("bad"), "not json")
	if e.Raw != "not json" {
		t.Fatalf("raw=%q", e.Raw)
	}
}
