package admerr_test

import (
	"errors"
	"strings"
	"testing"

	"admkit/internal/admerr"
)

func TestErrorRetainsMarkerAndCause(t *testing.T) {
	base := errors.New("boom")
	err := &admerr.Error{Kind: admerr.ErrUnresolvedReference, Entity: "AO_1001", ID: "AP_00031001", Err: base}
	if !errors.Is(err, admerr.ErrUnresolvedReference) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected cause to be retained, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"unresolved reference", "AO_1001", "AP_00031001", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestErrorKindClassification(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{admerr.MalformedID("audioObject", "AO_zz", "bad hex"), "malformed_id"},
		{admerr.MalformedTimecode("1:2:3", "separators"), "malformed_timecode"},
		{admerr.MissingValue("AO_1001", "duration"), "missing_value"},
		{admerr.InvalidOperation("AO_1001", "audioObjectID", "required"), "invalid_operation"},
		{admerr.DuplicateID("audioObject", "AO_1001"), "duplicate_id"},
		{admerr.UnresolvedReference("AO_1001", "AP_00031001", ""), "unresolved_reference"},
		{admerr.InvalidState("AB_00031001_00000001", "position", "no tag"), "invalid_state"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var classifier admerr.Classifier
			if !errors.As(tt.err, &classifier) {
				t.Fatalf("expected classifier for %v", tt.err)
			}
			if got := classifier.ErrorKind(); got != tt.kind {
				t.Fatalf("ErrorKind() = %q, want %q", got, tt.kind)
			}
			if admerr.KindName(admerr.Kind(tt.err)) != tt.kind {
				t.Fatalf("Kind(%v) did not map back to %q", tt.err, tt.kind)
			}
		})
	}
}

func TestKindOfForeignError(t *testing.T) {
	if admerr.Kind(errors.New("other")) != nil {
		t.Fatal("expected nil kind for foreign error")
	}
}
