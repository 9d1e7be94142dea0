package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	tests := []struct {
		name string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"WARN", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLevel(tt.name)
			if got := Logger.GetLevel(); got != tt.want {
				t.Errorf("level: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithFields(t *testing.T) {
	entry := WithFields(logrus.Fields{"pass": "standard", "paths": 3})
	if entry.Data["pass"] != "standard" || entry.Data["paths"] != 3 {
		t.Errorf("fields not attached: %v", entry.Data)
	}
}
