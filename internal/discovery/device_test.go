package discovery

import "testing"

func TestDevice_String(t *testing.T) {
	d := &Device{Instance: "IPC-HDW2431T", IP: "192.168.1.108", Port: 80}
	if got := d.String(); got != "IPC-HDW2431T at 192.168.1.108:80" {
		t.Errorf("String() = %s", got)
	}

	d = &Device{Hostname: "cam.local.", IP: "10.0.0.5", Port: 8080}
	if got := d.String(); got != "cam.local at 10.0.0.5:8080" {
		t.Errorf("String() = %s", got)
	}
	if got := d.BaseURL(); got != "http://10.0.0.5:8080" {
		t.Errorf("BaseURL() = %s", got)
	}
}

func TestDevice_LikelyCamera(t *testing.T) {
	tests := []struct {
		name   string
		device *Device
		want   bool
	}{
		{"rtsp service", &Device{Services: []string{RTSPService}}, true},
		{"dahua instance", &Device{Instance: "IPC-HFW1230S", Services: []string{HTTPService}}, true},
		{"amcrest host", &Device{Hostname: "Amcrest-IP2M.local.", Services: []string{HTTPService}}, true},
		{"printer", &Device{Instance: "Brother HL-L2350DW", Hostname: "BRN30055C.local.", Services: []string{HTTPService}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.LikelyCamera(); got != tt.want {
				t.Errorf("LikelyCamera() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDevice_GetMetadata(t *testing.T) {
	var d Device
	if got := d.GetMetadata("path"); got != "" {
		t.Errorf("GetMetadata on nil map = %q, want empty", got)
	}
}
