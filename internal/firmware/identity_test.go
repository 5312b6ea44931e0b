package firmware

import "testing"

func TestFirmwareID(t *testing.T) {
	cases := []struct {
		name string
		u    Uname
		want string
	}{
		{
			name: "version before first dash",
			u:    Uname{Sysname: "esp32", Release: "1.10.0", Version: "v1.10-8-g8b7039d7d"},
			want: "esp32 v1.10",
		},
		{
			name: "version without dash kept whole",
			u:    Uname{Sysname: "esp8266", Release: "2.2.0", Version: "v1.9.4"},
			want: "esp8266 v1.9.4",
		},
		{
			name: "LoBo uses release",
			u:    Uname{Sysname: "esp32_LoBo", Release: "3.2.24", Version: "ESP32_LoBo_v3.2.24"},
			want: "esp32_LoBo 3.2.24",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := FirmwareID(c.u); got != c.want {
				t.Fatalf("FirmwareID = %q, want %q", got, c.want)
			}
		})
	}
}

func TestPathSafeID(t *testing.T) {
	u := Uname{Sysname: "esp32", Release: "1.10.0", Version: "v1.10-8-g8b7039d7d"}
	if got := PathSafeID(u); got != "esp32_v1_10" {
		t.Fatalf("PathSafeID = %q, want %q", got, "esp32_v1_10")
	}
	odd := Uname{Sysname: "my board(a)", Version: "v1.0:$x"}
	if got := PathSafeID(odd); got != "my_board_a__v1_0__x" {
		t.Fatalf("PathSafeID = %q, want %q", got, "my_board_a__v1_0__x")
	}
}

func TestIsNotPresent(t *testing.T) {
	err := ErrNotPresent{Name: "ghost"}
	if !IsNotPresent(err) {
		t.Fatalf("expected ErrNotPresent to be recognized")
	}
	if IsNotPresent(nil) {
		t.Fatalf("nil is not an absence error")
	}
}
