package storage_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/typeset/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "renders" {
		t.Errorf("container_name: got %s, want renders", cfg.ContainerName)
	}
	if cfg.MaxListSize != 50 {
		t.Errorf("max_list_size: got %d, want 50", cfg.MaxListSize)
	}
}

func TestFinalizeCapsListSize(t *testing.T) {
	cfg := storage.Config{
		ConnectionString: "conn",
		MaxListSize:      10000,
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.MaxListSize != storage.MaxListCap {
		t.Errorf("max_list_size: got %d, want cap %d", cfg.MaxListSize, storage.MaxListCap)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "archive")
	t.Setenv("TEST_CONN", "override-connection")
	t.Setenv("TEST_LIST", "75")

	env := &storage.Env{
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
		MaxListSize:      "TEST_LIST",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "archive" {
		t.Errorf("container_name: got %s, want archive", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
	if cfg.MaxListSize != 75 {
		t.Errorf("max_list_size: got %d, want 75", cfg.MaxListSize)
	}
}

func TestFinalizeValidation(t *testing.T) {
	cfg := storage.Config{ContainerName: "renders"}
	err := cfg.Finalize(nil)
	if err == nil {
		t.Fatal("expected error for missing connection_string")
	}
	if !strings.Contains(err.Error(), "connection_string required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		ContainerName:    "renders",
		ConnectionString: "base-conn",
	}

	base.Merge(&storage.Config{ConnectionString: "overlay-conn"})

	if base.ContainerName != "renders" {
		t.Errorf("container_name should remain renders, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
}

func TestParseMaxResults(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int32
		wantErr bool
	}{
		{"empty uses default", "", 50, false},
		{"explicit value", "25", 25, false},
		{"capped at default", "80", 50, false},
		{"zero", "0", 0, true},
		{"negative", "-5", 0, true},
		{"not a number", "lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.ParseMaxResults(tt.value, 50)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMaxResults(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, storage.ErrInvalidMaxResults) {
				t.Errorf("error = %v, want ErrInvalidMaxResults", err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMaxResults(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}
