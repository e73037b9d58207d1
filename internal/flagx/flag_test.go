package flagx

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "http://localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "http://localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag (no value)",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "value that looks like a flag in equals form",
			args:         []string{"--config=--weird.json"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=--weird.json"},
		},
		{
			name:         "multiple allowed flags kept in order",
			args:         []string{"-a", "http://api:8080", "-c", "conf.json", "--other", "x"},
			allowedFlags: []string{"-c", "-a"},
			want:         []string{"-a", "http://api:8080", "-c", "conf.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c", func(t *testing.T) {
		os.Args = []string{"plc", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", ConfigFileFlag())
	})

	t.Run("long --config with equals", func(t *testing.T) {
		os.Args = []string{"plc", "--config=/path/long.json"}
		assert.Equal(t, "/path/long.json", ConfigFileFlag())
	})

	t.Run("other flags ignored", func(t *testing.T) {
		os.Args = []string{"plc", "-a", "http://x", "-e", ".env"}
		assert.Empty(t, ConfigFileFlag())
	})

	t.Run("last wins", func(t *testing.T) {
		os.Args = []string{"plc", "-c", "/1.json", "-config", "/2.json"}
		assert.Equal(t, "/2.json", ConfigFileFlag())
	})
}

func TestEnvFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"plc", "-c", "conf.json", "-env", "prod.env"}
	assert.Equal(t, "prod.env", EnvFileFlag())

	os.Args = []string{"plc"}
	assert.Empty(t, EnvFileFlag())
}
