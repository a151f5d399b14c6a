package media

import "testing"

func TestContentType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/images/ads/ad_1_abc.jpg", "image/jpeg"},
		{"/images/ads/ad_1_abc.JPEG", "image/jpeg"},
		{"/images/users/user_2_def.png", "image/png"},
		{"banner.gif", "image/gif"},
		{"/images/ads/ad_3_ghi.webp", DefaultContentType},
		{"noextension", DefaultContentType},
		{"", DefaultContentType},
	}

	for _, tt := range tests {
		if got := ContentType(tt.in); got != tt.want {
			t.Errorf("ContentType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
