package util_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/msarti/mandan/util"
	"gopkg.in/yaml.v3"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	util.SetOutput(&buf)
	util.SetLevel(util.LogLevelWarn)
	defer func() {
		util.SetOutput(os.Stderr)
		util.SetLevel(util.LogLevelInfo)
	}()

	util.Debug("debug %d", 1)
	util.Info("info %d", 2)
	util.Warn("warn %d", 3)
	util.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below warn leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") || !strings.Contains(out, "[ERROR] error 4") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
}

func TestLogLevelUnmarshalYAML(t *testing.T) {
	tests := []struct {
		input string
		want  util.LogLevel
	}{
		{"level: debug", util.LogLevelDebug},
		{"level: WARNING", util.LogLevelWarn},
		{"level: 3", util.LogLevelError},
		{"level: bogus", util.LogLevelInfo},
	}

	for _, tt := range tests {
		var v struct {
			Level util.LogLevel `yaml:"level"`
		}
		if err := yaml.Unmarshal([]byte(tt.input), &v); err != nil {
			t.Fatalf("unmarshal %q: %v", tt.input, err)
		}
		if v.Level != tt.want {
			t.Errorf("%q: got %s, want %s", tt.input, v.Level, tt.want)
		}
	}
}
