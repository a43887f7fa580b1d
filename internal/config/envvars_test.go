// ABOUTME: Tests for environment variable expansion in config
// ABOUTME: Validates ${VAR} replacement for set, unset, and nested patterns

package config

import "testing"

func TestExpandEnv(t *testing.T) {
	t.Setenv("TERNIMAL_TEST_HOST", "localhost")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set", "${TERNIMAL_TEST_HOST}", "localhost"},
		{"unset", "${DEFINITELY_NOT_SET_12345}", ""},
		{"mixed", "http://${TERNIMAL_TEST_HOST}:9090", "http://localhost:9090"},
		{"no pattern", "plain string", "plain string"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnv(tt.in); got != tt.want {
				t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveEnvVars_SettingsFields(t *testing.T) {
	t.Setenv("TERNIMAL_TEST_USER", "ada")
	t.Setenv("TERNIMAL_TEST_PORT", "2112")

	s := &Settings{
		Prompt:      Prompt{Short: "${TERNIMAL_TEST_USER}> ", Long: "[${TERNIMAL_TEST_USER}] "},
		MetricsAddr: ":${TERNIMAL_TEST_PORT}",
		HistoryFile: "/tmp/${TERNIMAL_TEST_USER}/history",
	}
	ResolveEnvVars(s)

	want := Settings{
		Prompt:      Prompt{Short: "ada> ", Long: "[ada] "},
		MetricsAddr: ":2112",
		HistoryFile: "/tmp/ada/history",
	}
	if *s != want {
		t.Errorf("ResolveEnvVars = %+v, want %+v", *s, want)
	}
}
