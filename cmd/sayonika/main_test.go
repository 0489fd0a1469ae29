package main

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"sayori", "mod-maker", "nat_suki", "a1b"}
	for _, u := range valid {
		if err := validateUsername(u); err != nil {
			t.Errorf("validateUsername(%q) = %v, want nil", u, err)
		}
	}
	invalid := []string{"", "ab", "UPPER", "has space", "-leading", "way-too-long-username-here"}
	for _, u := range invalid {
		if err := validateUsername(u); err == nil {
			t.Errorf("validateUsername(%q) = nil, want error", u)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := validatePassword("short"); err == nil {
		t.Error("short password accepted")
	}
	if err := validatePassword("alllowercase"); err == nil {
		t.Error("single-class password accepted")
	}
	if err := validatePassword("Cupcakes4ever"); err != nil {
		t.Errorf("mixed password rejected: %v", err)
	}
	if err := validatePassword("just a very long passphrase"); err != nil {
		t.Errorf("long passphrase rejected: %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	if err := validateEmail("sayori@sayonika.moe"); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
	for _, e := range []string{"", "no-at-sign", "@nodomain", "user@nodot"} {
		if err := validateEmail(e); err == nil {
			t.Errorf("validateEmail(%q) = nil, want error", e)
		}
	}
}

func TestReadTokenEnvPrecedence(t *testing.T) {
	t.Setenv("SAYONIKA_TOKEN", "env-token")
	if got := readToken(); got != "env-token" {
		t.Errorf("readToken() = %q, want env value", got)
	}
}

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		latest  string
		current string
		want    bool
	}{
		{"1.0.0", "1.0.0", false},
		{"1.1.0", "1.0.0", true},
		{"1.0.0", "1.1.0", false},
		{"1.10.0", "1.9.0", true},
		{"2.0.0", "1.99.99", true},
		{"0.0.1", "0.0.2", false},
		{"v1.2.3", "1.2.3", false},
		{"v1.3.0", "v1.2.0", true},
		{"1.0.1", "1.0.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.latest+"_vs_"+tt.current, func(t *testing.T) {
			if got := isNewerVersion(tt.latest, tt.current); got != tt.want {
				t.Errorf("isNewerVersion(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
			}
		})
	}
}

// makeTarGz creates a tar.gz file with the given entries.
func makeTarGz(t *testing.T, dest string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	for name, content := range entries {
		hdr := &tar.Header{
			Name:     name,
			Size:     int64(len(content)),
			Mode:     0755,
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtractBinary(t *testing.T) {
	t.Run("valid tarball", func(t *testing.T) {
		tmpDir := t.TempDir()
		tarPath := filepath.Join(tmpDir, "test.tar.gz")
		makeTarGz(t, tarPath, map[string]string{
			"sayonika": "fake-binary-content",
		})

		dest := filepath.Join(tmpDir, "sayonika")
		if err := extractBinary(tarPath, dest); err != nil {
			t.Fatalf("extractBinary() error: %v", err)
		}

		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("reading extracted binary: %v", err)
		}
		if string(data) != "fake-binary-content" {
			t.Errorf("extracted content = %q", string(data))
		}
	})

	t.Run("binary in subdir", func(t *testing.T) {
		tmpDir := t.TempDir()
		tarPath := filepath.Join(tmpDir, "test.tar.gz")
		makeTarGz(t, tarPath, map[string]string{
			"sayonika_linux_amd64/sayonika": "subdir-binary",
		})

		dest := filepath.Join(tmpDir, "sayonika")
		if err := extractBinary(tarPath, dest); err != nil {
			t.Fatalf("extractBinary() error: %v", err)
		}

		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "subdir-binary" {
			t.Errorf("extracted content = %q", string(data))
		}
	})

	t.Run("no matching entry", func(t *testing.T) {
		tmpDir := t.TempDir()
		tarPath := filepath.Join(tmpDir, "test.tar.gz")
		makeTarGz(t, tarPath, map[string]string{
			"other-binary": "content",
		})

		dest := filepath.Join(tmpDir, "sayonika")
		if err := extractBinary(tarPath, dest); err == nil {
			t.Fatal("expected error for missing binary entry")
		}
	})
}

func TestVerifyChecksum(t *testing.T) {
	t.Run("matching checksum", func(t *testing.T) {
		tmpDir := t.TempDir()

		content := "test file content"
		filePath := filepath.Join(tmpDir, "sayonika_linux_amd64.tar.gz")
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		h := sha256.Sum256([]byte(content))
		checksum := hex.EncodeToString(h[:])

		checksumsPath := filepath.Join(tmpDir, "checksums.txt")
		checksumLine := checksum + "  sayonika_linux_amd64.tar.gz\n"
		if err := os.WriteFile(checksumsPath, []byte(checksumLine), 0644); err != nil {
			t.Fatal(err)
		}

		if err := verifyChecksum(filePath, checksumsPath, "sayonika_linux_amd64.tar.gz"); err != nil {
			t.Fatalf("verifyChecksum() error: %v", err)
		}
	})

	t.Run("mismatched checksum", func(t *testing.T) {
		tmpDir := t.TempDir()

		filePath := filepath.Join(tmpDir, "sayonika_linux_amd64.tar.gz")
		if err := os.WriteFile(filePath, []byte("actual content"), 0644); err != nil {
			t.Fatal(err)
		}

		checksumsPath := filepath.Join(tmpDir, "checksums.txt")
		checksumLine := "deadbeef00000000000000000000000000000000000000000000000000000000  sayonika_linux_amd64.tar.gz\n"
		if err := os.WriteFile(checksumsPath, []byte(checksumLine), 0644); err != nil {
			t.Fatal(err)
		}

		err := verifyChecksum(filePath, checksumsPath, "sayonika_linux_amd64.tar.gz")
		if err == nil {
			t.Fatal("expected error for mismatched checksum")
		}
		if !strings.Contains(err.Error(), "checksum mismatch") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
