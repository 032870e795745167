package cli

import (
	"testing"
)

func TestPersistentFlagDefaults(t *testing.T) {
	tests := []struct {
		flag     string
		expected string
	}{
		{"host", "localhost"},
		{"port", "8470"},
		{"json", "false"},
		{"config", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := rootCmd.PersistentFlags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("flag %s should exist", tt.flag)
			}
			if f.DefValue != tt.expected {
				t.Errorf("expected default %q, got %q", tt.expected, f.DefValue)
			}
		})
	}
}

func TestGetServerURL(t *testing.T) {
	host, port = "10.0.0.7", 9000
	defer func() { host, port = "localhost", 8470 }()

	if url := GetServerURL(); url != "http://10.0.0.7:9000" {
		t.Errorf("expected http://10.0.0.7:9000, got %s", url)
	}
}

func TestGlobalAccessors(t *testing.T) {
	cfgFile, jsonOut, verbose = "/etc/adcfox/config.yaml", true, true
	user, password = "admin", "secret"
	defer func() {
		cfgFile, jsonOut, verbose = "", false, false
		user, password = "", ""
	}()

	if GetConfigFile() != "/etc/adcfox/config.yaml" {
		t.Errorf("unexpected config file %s", GetConfigFile())
	}
	if !IsJSON() || !IsVerbose() {
		t.Error("expected json and verbose to be set")
	}
	if u, p := GetAuth(); u != "admin" || p != "secret" {
		t.Errorf("expected admin:secret, got %s:%s", u, p)
	}
}

func TestSetVersion(t *testing.T) {
	old := Version
	defer SetVersion(old)

	SetVersion("1.2.3")
	if Version != "1.2.3" || rootCmd.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s / %s", Version, rootCmd.Version)
	}
}

func TestNewClient_WithAuth(t *testing.T) {
	host, port = "localhost", 8470
	user, password = "admin", "secret"
	defer func() { user, password = "", "" }()

	client := NewClient()

	if client.baseURL != "http://localhost:8470" {
		t.Errorf("expected http://localhost:8470, got %s", client.baseURL)
	}
	if client.user != "admin" || client.password != "secret" {
		t.Errorf("expected admin:secret, got %s:%s", client.user, client.password)
	}
}

func TestAPIError(t *testing.T) {
	plain := &APIError{Status: 500, Msg: "boom"}
	if plain.Error() != "server returned status 500: boom" {
		t.Errorf("unexpected message %q", plain.Error())
	}

	coded := &APIError{Status: 404, Code: "NO_MATCHING_MODEL_ENTRY", Msg: "no entry"}
	if coded.Error() != "no entry" {
		t.Errorf("unexpected message %q", coded.Error())
	}
}
