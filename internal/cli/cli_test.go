package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/knaebel/wheelhouse/pkg/manifest"
)

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

// runCommand executes the root command with the given args in a fresh CLI.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	root := newTestCLI().RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	m := manifest.New()
	m.Repo = "owner/repo"
	err := m.Add("demo", manifest.Entry{
		Filename:   "demo-1.0.0-py3-none-any.whl",
		Version:    "1.0.0",
		ReleaseTag: "v1.0.0",
		URL:        "https://github.com/owner/repo/releases/download/v1.0.0/demo-1.0.0-py3-none-any.whl",
		SizeBytes:  128,
		SHA256:     "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
	})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "wheels.json")
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := map[string]bool{
		"publish":    false,
		"generate":   false,
		"serve":      false,
		"manifest":   false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	mpath := writeManifest(t, dir)
	out := filepath.Join(dir, "dist")

	err := runCommand(t, "generate",
		"--config", filepath.Join(dir, "wheelhouse.toml"),
		"--manifest", mpath,
		"--output", out,
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := os.Stat(filepath.Join(out, "index.html")); err != nil {
		t.Errorf("root index missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "demo", "index.html")); err != nil {
		t.Errorf("package page missing: %v", err)
	}
}

func TestGenerateCommand_BadManifest(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "wheels.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runCommand(t, "generate",
		"--config", filepath.Join(dir, "wheelhouse.toml"),
		"--manifest", bad,
		"--output", filepath.Join(dir, "dist"),
	)
	if err == nil {
		t.Fatal("expected error for malformed manifest")
	}
}

func TestManifestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	mpath := writeManifest(t, dir)

	err := runCommand(t, "manifest", "validate",
		"--config", filepath.Join(dir, "wheelhouse.toml"),
		"--manifest", mpath,
	)
	if err != nil {
		t.Errorf("validate on a good manifest: %v", err)
	}
}

func TestManifestValidateCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "wheels.json")
	if err := os.WriteFile(bad, []byte(`{"repo":"","packages":{"demo":[]}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runCommand(t, "manifest", "validate",
		"--config", filepath.Join(dir, "wheelhouse.toml"),
		"--manifest", bad,
	)
	if err == nil {
		t.Fatal("expected error for manifest without a repo")
	}
}

func TestManifestShowCommand(t *testing.T) {
	dir := t.TempDir()
	mpath := writeManifest(t, dir)

	err := runCommand(t, "manifest", "show",
		"--config", filepath.Join(dir, "wheelhouse.toml"),
		"--manifest", mpath,
	)
	if err != nil {
		t.Errorf("show: %v", err)
	}
}

func TestServeCommand_MissingDir(t *testing.T) {
	dir := t.TempDir()

	err := runCommand(t, "serve",
		"--config", filepath.Join(dir, "wheelhouse.toml"),
		"--dir", filepath.Join(dir, "nope"),
	)
	if err == nil {
		t.Fatal("expected error for missing site directory")
	}
}

func TestPublishCommand_RequiresToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	dir := t.TempDir()
	wheel := filepath.Join(dir, "demo-1.0.0-py3-none-any.whl")
	if err := os.WriteFile(wheel, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runCommand(t, "publish",
		"--config", filepath.Join(dir, "wheelhouse.toml"),
		"--tag", "v1.0.0",
		"--repo", "owner/repo",
		wheel,
	)
	if err == nil {
		t.Fatal("expected error without GITHUB_TOKEN")
	}
}

func TestPublishCommand_RequiresTag(t *testing.T) {
	if err := runCommand(t, "publish", "some.whl"); err == nil {
		t.Fatal("expected error for missing --tag")
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{":8080", "localhost:8080"},
		{"localhost:9000", "localhost:9000"},
		{"0.0.0.0:80", "0.0.0.0:80"},
	}
	for _, tt := range tests {
		if got := displayAddr(tt.in); got != tt.want {
			t.Errorf("displayAddr(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
