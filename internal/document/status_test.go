package document

import (
	"errors"
	"testing"
)

func TestValidateStatus(t *testing.T) {
	for _, s := range []Status{StatusNotStarted, StatusInProgress, StatusNeedsDetail, StatusDraft, StatusComplete} {
		if err := ValidateStatus(s); err != nil {
			t.Errorf("ValidateStatus(%s) = %v, want nil", s, err)
		}
	}
	for _, s := range []Status{"", "done", "COMPLETE", "in progress"} {
		err := ValidateStatus(s)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateStatus(%q) = %v, want ErrValidation", s, err)
		}
	}
}

func TestPromoteOnWrite(t *testing.T) {
	tests := []struct {
		current Status
		want    Status
	}{
		{StatusNotStarted, StatusInProgress},
		{StatusInProgress, StatusInProgress},
		{StatusNeedsDetail, StatusNeedsDetail},
		{StatusDraft, StatusDraft},
		{StatusComplete, StatusComplete},
	}
	for _, tt := range tests {
		if got := promoteOnWrite(tt.current); got != tt.want {
			t.Errorf("promoteOnWrite(%s) = %s, want %s", tt.current, got, tt.want)
		}
	}
}
