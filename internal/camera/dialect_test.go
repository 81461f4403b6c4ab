package camera

import (
	"strings"
	"testing"
)

func TestLookupDialect(t *testing.T) {
	for _, name := range []string{"dahua", "amcrest", "DAHUA"} {
		d, err := LookupDialect(name)
		if err != nil {
			t.Fatalf("LookupDialect(%q) error = %v", name, err)
		}
		if d.InfraredDay != 0 || d.InfraredNight != 1 {
			t.Errorf("%s infrared = %d/%d, want 0/1", name, d.InfraredDay, d.InfraredNight)
		}
	}
}

func TestLookupDialectUnknown(t *testing.T) {
	_, err := LookupDialect("onvif")
	if err == nil {
		t.Fatal("LookupDialect() should fail for an unknown name")
	}
	if !strings.Contains(err.Error(), "dahua") {
		t.Errorf("error should list known dialects, got %v", err)
	}
}

func TestDialectNames(t *testing.T) {
	names := DialectNames()
	if len(names) < 2 || names[0] != "amcrest" || names[1] != "dahua" {
		t.Errorf("DialectNames() = %v, want [amcrest dahua ...]", names)
	}
}

func TestDialectPaths(t *testing.T) {
	d, err := LookupDialect("dahua")
	if err != nil {
		t.Fatalf("LookupDialect() error = %v", err)
	}

	tests := []struct {
		got  string
		want string
	}{
		{d.SetProfilePath(1), "/cgi-bin/configManager.cgi?action=setConfig&VideoInMode[0].Config[0]=1"},
		{d.SetInfraredPath(0), "/cgi-bin/configManager.cgi?action=setConfig&VideoInOptions[0].NightOptions.SwitchMode=0"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("path = %s, want %s", tt.got, tt.want)
		}
	}
}
