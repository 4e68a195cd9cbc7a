package sequence

import "testing"

func TestFormatLoanNo(t *testing.T) {
	tests := []struct {
		seq  int64
		want string
	}{
		{1, "NMFSPE00000000001"},
		{42, "NMFSPE00000000042"},
		{99999999999, "NMFSPE99999999999"},
	}
	for _, tt := range tests {
		if got := FormatLoanNo("NMFSPE", 11, tt.seq); got != tt.want {
			t.Errorf("FormatLoanNo(%d) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}

func TestFormatLoanNoLength(t *testing.T) {
	got := FormatLoanNo("NMFSPE", 11, 7)
	if len(got) != len("NMFSPE")+11 {
		t.Errorf("loan number %q has wrong width", got)
	}
}
