package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		boolFlags    []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
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
			name:         "flag followed by another flag has no value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "repeated allowed flag is preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "bool flag does not swallow the next token",
			args:         []string{"-z", "stray", "-a", "http://h"},
			allowedFlags: []string{"-a"},
			boolFlags:    []string{"-z"},
			want:         []string{"-z", "-a", "http://h"},
		},
		{
			name:         "bool flag with explicit value",
			args:         []string{"-z=false", "-a", "http://h"},
			allowedFlags: []string{"-a"},
			boolFlags:    []string{"-z"},
			want:         []string{"-z=false", "-a", "http://h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags, tt.boolFlags...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigPath(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", ConfigPath())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", ConfigPath())
	})

	t.Run("double dash with equals", func(t *testing.T) {
		os.Args = []string{"testbin", "--config=/path/eq.json"}
		assert.Equal(t, "/path/eq.json", ConfigPath())
	})

	t.Run("env fallback", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1"}
		t.Setenv(ConfigEnvVar, "/path/env.json")
		assert.Equal(t, "/path/env.json", ConfigPath())
	})

	t.Run("flag wins over env", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/flag.json"}
		t.Setenv(ConfigEnvVar, "/path/env.json")
		assert.Equal(t, "/path/flag.json", ConfigPath())
	})

	t.Run("nothing set", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(ConfigEnvVar, "")
		assert.Empty(t, ConfigPath())
	})
}
