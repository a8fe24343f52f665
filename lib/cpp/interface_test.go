package cpp

import "testing"

func TestIDPacking(t *testing.T) {
	id := ID(7, 3, 0)
	if id != 0x07030000 {
		t.Errorf("ID(7, 3, 0) = 0x%08x, want 0x07030000", id)
	}

	tests := []struct {
		target, action, token uint8
	}{
		{0, 0, 0},
		{7, 3, 0},
		{0x7f, 0xff, 0xff},
		{1, 2, 3},
	}

	for _, tc := range tests {
		id := ID(tc.target, tc.action, tc.token)
		if got := IDTarget(id); got != tc.target {
			t.Errorf("IDTarget(ID(%d,%d,%d)) = %d", tc.target, tc.action, tc.token, got)
		}
		if got := IDAction(id); got != tc.action {
			t.Errorf("IDAction(ID(%d,%d,%d)) = %d", tc.target, tc.action, tc.token, got)
		}
		if got := IDToken(id); got != tc.token {
			t.Errorf("IDToken(ID(%d,%d,%d)) = %d", tc.target, tc.action, tc.token, got)
		}
	}
}
