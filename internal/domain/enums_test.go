package domain

import "testing"

func TestMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode Mode
		want bool
	}{
		{ModeReflective, true},
		{ModeImprovement, true},
		{Mode("grateful"), false},
		{Mode(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			t.Parallel()
			if got := tt.mode.IsValid(); got != tt.want {
				t.Errorf("Mode(%q).IsValid() = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestMediaKind_IsValid(t *testing.T) {
	t.Parallel()

	if !MediaKindImage.IsValid() || !MediaKindVideo.IsValid() {
		t.Fatal("image and video must be valid")
	}
	if MediaKind("audio").IsValid() {
		t.Fatal("audio must not be valid")
	}
}

func TestUserRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role      UserRole
		wantValid bool
		wantAdmin bool
	}{
		{UserRoleUser, true, false},
		{UserRoleAdmin, true, true},
		{UserRoleSuperAdmin, true, true},
		{UserRole("root"), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			t.Parallel()
			if got := tt.role.IsValid(); got != tt.wantValid {
				t.Errorf("IsValid() = %v, want %v", got, tt.wantValid)
			}
			if got := tt.role.IsAdmin(); got != tt.wantAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.wantAdmin)
			}
		})
	}
}

func TestChannel_IsValid(t *testing.T) {
	t.Parallel()

	if !ChannelSMS.IsValid() || !ChannelWhatsApp.IsValid() {
		t.Fatal("sms and whatsapp must be valid")
	}
	if Channel("email").IsValid() {
		t.Fatal("email must not be valid")
	}
}

func TestAuditFilter_EffectiveLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultAuditLimit},
		{-5, DefaultAuditLimit},
		{10, 10},
		{MaxAuditLimit + 1, MaxAuditLimit},
	}
	for _, tt := range tests {
		if got := (AuditFilter{Limit: tt.limit}).EffectiveLimit(); got != tt.want {
			t.Errorf("EffectiveLimit(%d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}
