package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "artefacto.yaml", "-a", "http://localhost:8080/api"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "artefacto.yaml"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=artefacto.json", "-t", "30"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=artefacto.json"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "dangling flag kept",
			args:    []string{"-d"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "next flag is not a value",
			args:    []string{"-c", "-l", "debug"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "several owners interleaved",
			args:    []string{"-a", "http://api", "-c", "conf.json", "-m", "http://ml", "--other", "x"},
			allowed: []string{"-a", "-m"},
			want:    []string{"-a", "http://api", "-m", "http://ml"},
		},
		{
			name:    "repeats preserved in order",
			args:    []string{"-l", "info", "-l", "debug"},
			allowed: []string{"-l"},
			want:    []string{"-l", "info", "-l", "debug"},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "/etc/artefacto.yaml"}, "/etc/artefacto.yaml"},
		{"long", []string{"-config", "/etc/artefacto.json"}, "/etc/artefacto.json"},
		{"long equals", []string{"-config=/tmp/a.json", "-a", "x"}, "/tmp/a.json"},
		{"last wins", []string{"-c", "one.json", "-config", "two.json"}, "two.json"},
		{"absent", []string{"-a", "http://api", "-l", "debug"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFile(tt.args))
		})
	}
}
