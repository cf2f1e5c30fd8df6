package assay

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
)

func TestSubjectErrorMatchesCategory(t *testing.T) {
	cause := fmt.Errorf("underlying parse failure")
	err := &SubjectError{
		Category: ErrMalformedRecord,
		Subject:  "Cage4_Rn",
		Path:     "/data/groom/bad.csv",
		Err:      cause,
	}

	if !errors.Is(err, ErrMalformedRecord) {
		t.Error("SubjectError should match its category sentinel")
	}
	if errors.Is(err, ErrMissingInput) {
		t.Error("SubjectError should not match a different category")
	}
	if !errors.Is(err, cause) {
		t.Error("SubjectError should match its underlying cause")
	}

	msg := err.Error()
	for _, part := range []string{"Cage4_Rn", "bad.csv", "malformed record"} {
		if !strings.Contains(msg, part) {
			t.Errorf("error message %q missing %q", msg, part)
		}
	}
}

func TestSubjectFromName(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    string
		wantErr bool
	}{
		{"open field suffix", `^(.+)_LocationOutput$`, "44AM_Rn_LocationOutput", "44AM_Rn", false},
		{"plain stem", `^(.+)$`, "44AM_Rn", "44AM_Rn", false},
		{"dated grooming prefix", `^\d{6}_CL(.+)$`, "230412_CLCage4_Rn", "Cage4_Rn", false},
		{"dated folder prefix", `^\d{6}_(.+)$`, "230412_Cage4_Rn", "Cage4_Rn", false},
		{"non-conforming name", `^(.+)_LocationOutput$`, "notes", "", true},
		{"empty capture", `^(.*)_LocationOutput$`, "_LocationOutput", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubjectFromName(tt.input, regexp.MustCompile(tt.pattern))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if !errors.Is(err, ErrMalformedRecord) {
					t.Errorf("expected ErrMalformedRecord, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SubjectFromName = %q, want %q", got, tt.want)
			}
		})
	}
}
