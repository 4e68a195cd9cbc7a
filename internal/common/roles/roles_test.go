package roles

import "testing"

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		assigned []Role
		want     []Role
		wantNot  []Role
	}{
		{
			name:     "screener only",
			assigned: []Role{Screener},
			want:     []Role{Screener},
			wantNot:  []Role{CreditManager, Admin},
		},
		{
			name:     "sanction head covers credit manager",
			assigned: []Role{SanctionHead},
			want:     []Role{SanctionHead, CreditManager},
			wantNot:  []Role{Screener, DisbursalManager},
		},
		{
			name:     "disbursal head covers disbursal manager",
			assigned: []Role{DisbursalHead},
			want:     []Role{DisbursalHead, DisbursalManager},
			wantNot:  []Role{CreditManager},
		},
		{
			name:     "admin covers everything",
			assigned: []Role{Admin},
			want:     All,
		},
		{
			name:     "multiple roles union",
			assigned: []Role{Screener, CollectionExecutive},
			want:     []Role{Screener, CollectionExecutive},
			wantNot:  []Role{AccountExecutive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Expand(tt.assigned)
			for _, r := range tt.want {
				if !set[r] {
					t.Errorf("Expand(%v) missing %s", tt.assigned, r)
				}
			}
			for _, r := range tt.wantNot {
				if set[r] {
					t.Errorf("Expand(%v) should not grant %s", tt.assigned, r)
				}
			}
		})
	}
}

func TestExpandIsPure(t *testing.T) {
	first := Expand([]Role{SanctionHead})
	first[Screener] = true

	second := Expand([]Role{SanctionHead})
	if second[Screener] {
		t.Error("Expand leaked state between calls")
	}
}

func TestAllowed(t *testing.T) {
	if !Allowed([]Role{SanctionHead}, CreditManager) {
		t.Error("sanction head should act as credit manager")
	}
	if Allowed([]Role{CreditManager}, SanctionHead) {
		t.Error("credit manager must not act as sanction head")
	}
}

func TestValid(t *testing.T) {
	if !Valid("screener") {
		t.Error("screener should be a valid role")
	}
	if Valid("superuser") {
		t.Error("superuser is not a role")
	}
}
