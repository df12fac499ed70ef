package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/gorevise/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	// Create temp directory with no config files
	tmpDir := t.TempDir()

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         tmpDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}

	result, err := Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}

	// Check defaults are applied
	if result.Config.Provider.Name != config.ProviderOpenAI {
		t.Errorf("expected provider %q, got %q", config.ProviderOpenAI, result.Config.Provider.Name)
	}
	if result.Config.Review.MaxProposals != config.DefaultMaxProposals {
		t.Errorf("expected max_proposals %d, got %d", config.DefaultMaxProposals, result.Config.Review.MaxProposals)
	}
	if !result.Config.Review.SaveSessions {
		t.Error("expected save_sessions true by default")
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configContent := `
provider:
  name: gemini
  model: gemini-2.0-flash
review:
  max_proposals: 5
  ignore:
    - "build/**"
`
	configPath := filepath.Join(tmpDir, ".gorevise.yml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         tmpDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}

	result, err := Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Provider.Name != config.ProviderGemini {
		t.Errorf("expected provider %q, got %q", config.ProviderGemini, result.Config.Provider.Name)
	}
	if result.Config.Provider.Model != "gemini-2.0-flash" {
		t.Errorf("expected model %q, got %q", "gemini-2.0-flash", result.Config.Provider.Model)
	}
	if result.Config.Review.MaxProposals != 5 {
		t.Errorf("expected max_proposals 5, got %d", result.Config.Review.MaxProposals)
	}
	if len(result.Config.Review.Ignore) != 1 || result.Config.Review.Ignore[0] != "build/**" {
		t.Errorf("expected ignore [build/**], got %v", result.Config.Review.Ignore)
	}

	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected 1 loaded file, got %d", len(result.LoadedFrom))
	}
}

func TestLoad_ProjectConfigUpwardSearch(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configContent := "provider:\n  name: gemini\n"
	configPath := filepath.Join(tmpDir, ".gorevise.yml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Start the search two levels down
	nested := filepath.Join(tmpDir, "src", "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         nested,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}

	result, err := Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Provider.Name != config.ProviderGemini {
		t.Errorf("expected provider from parent config, got %q", result.Config.Provider.Name)
	}
}

func TestLoad_UpwardSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	// Config above the VCS root must not be found
	configPath := filepath.Join(tmpDir, ".gorevise.yml")
	if err := os.WriteFile(configPath, []byte("provider:\n  name: gemini\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	repo := filepath.Join(tmpDir, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         repo,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}

	result, err := Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Provider.Name != config.ProviderOpenAI {
		t.Errorf("expected default provider (search stopped at VCS root), got %q", result.Config.Provider.Name)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configContent := `
provider:
  name: compatible
  base_url: https://llm.internal.example.com/v1
severity_default: warning
`
	customPath := filepath.Join(tmpDir, "custom-config.yml")
	if err := os.WriteFile(customPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         tmpDir,
		ExplicitPath:       customPath,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}

	result, err := Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Provider.Name != config.ProviderCompatible {
		t.Errorf("expected provider %q, got %q", config.ProviderCompatible, result.Config.Provider.Name)
	}
	if result.Config.SeverityDefault != "warning" {
		t.Errorf("expected severity_default %q, got %q", "warning", result.Config.SeverityDefault)
	}
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	projectPath := filepath.Join(tmpDir, ".gorevise.yml")
	if err := os.WriteFile(projectPath, []byte("provider:\n  model: project-model\n"), 0644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	explicitPath := filepath.Join(tmpDir, "override.yml")
	if err := os.WriteFile(explicitPath, []byte("provider:\n  model: explicit-model\n"), 0644); err != nil {
		t.Fatalf("write explicit config: %v", err)
	}

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         tmpDir,
		ExplicitPath:       explicitPath,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}

	result, err := Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Provider.Model != "explicit-model" {
		t.Errorf("expected explicit config to win, got model %q", result.Config.Provider.Model)
	}
	if len(result.LoadedFrom) != 2 {
		t.Errorf("expected 2 loaded files, got %d: %v", len(result.LoadedFrom), result.LoadedFrom)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configContent := `
provider:
  name: openai
review:
  jobs: 2
`
	configPath := filepath.Join(tmpDir, ".gorevise.yml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx := context.Background()
	cliCfg := &config.Config{}
	cliCfg.Provider.Name = config.ProviderGemini
	cliCfg.Review.Jobs = 8
	cliCfg.DryRun = true

	opts := LoadOptions{
		WorkingDir:         tmpDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
		CLIConfig:          cliCfg,
	}

	result, err := Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// CLI should override project config
	if result.Config.Provider.Name != config.ProviderGemini {
		t.Errorf("expected provider %q (CLI override), got %q", config.ProviderGemini, result.Config.Provider.Name)
	}
	if result.Config.Review.Jobs != 8 {
		t.Errorf("expected jobs 8 (CLI override), got %d", result.Config.Review.Jobs)
	}
	if !result.Config.DryRun {
		t.Error("expected dry_run true (CLI override)")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	// t.Setenv is incompatible with t.Parallel.
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, ".gorevise.yml")
	if err := os.WriteFile(configPath, []byte("provider:\n  model: from-file\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("GOREVISE_MODEL", "from-env")
	t.Setenv("GOREVISE_JOBS", "7")
	t.Setenv("GOREVISE_IGNORE", "a/**, b/**")

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         tmpDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
	}

	result, err := Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Provider.Model != "from-env" {
		t.Errorf("expected model from env, got %q", result.Config.Provider.Model)
	}
	if result.Config.Review.Jobs != 7 {
		t.Errorf("expected jobs 7 from env, got %d", result.Config.Review.Jobs)
	}
	if len(result.Config.Review.Ignore) != 2 {
		t.Errorf("expected 2 ignore patterns from env, got %v", result.Config.Review.Ignore)
	}
}

func TestLoad_EnvInvalidInteger(t *testing.T) {
	t.Setenv("GOREVISE_JOBS", "not-a-number")

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         t.TempDir(),
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
	}

	_, err := Load(ctx, opts)
	if err == nil {
		t.Fatal("expected error for invalid GOREVISE_JOBS")
	}
	if !strings.Contains(err.Error(), "GOREVISE_JOBS") {
		t.Errorf("expected error to name the variable, got %v", err)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	// godotenv writes into the process environment; not parallel-safe.
	tmpDir := t.TempDir()

	envContent := "GOREVISE_MODEL=from-dotenv\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(envContent), 0600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("GOREVISE_MODEL") })

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         tmpDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
	}

	result, err := Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Provider.Model != "from-dotenv" {
		t.Errorf("expected model from .env, got %q", result.Config.Provider.Model)
	}

	foundDotEnv := false
	for _, loaded := range result.LoadedFrom {
		if filepath.Base(loaded) == ".env" {
			foundDotEnv = true
		}
	}
	if !foundDotEnv {
		t.Errorf("expected .env in LoadedFrom, got %v", result.LoadedFrom)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configContent := `
provider:
  name: not-a-provider
`
	configPath := filepath.Join(tmpDir, ".gorevise.yml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         tmpDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}

	_, err := Load(ctx, opts)
	if err == nil {
		t.Fatal("expected validation error for invalid provider")
	}
}

func TestLoad_CompatibleRequiresBaseURL(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, ".gorevise.yml")
	if err := os.WriteFile(configPath, []byte("provider:\n  name: compatible\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         tmpDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}

	_, err := Load(ctx, opts)
	if err == nil {
		t.Fatal("expected validation error for compatible without base_url")
	}
	if !strings.Contains(err.Error(), "base_url") {
		t.Errorf("expected base_url in error, got %v", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, ".gorevise.yml")
	if err := os.WriteFile(configPath, []byte("provider: [unclosed\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx := context.Background()
	opts := LoadOptions{
		WorkingDir:         tmpDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}

	_, err := Load(ctx, opts)
	if err == nil {
		t.Fatal("expected parse error for malformed YAML")
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	opts := LoadOptions{
		WorkingDir:         t.TempDir(),
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}

	_, err := Load(ctx, opts)
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestMerge_NilHandling(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()

	if got := merge(nil, base); got != base {
		t.Error("merge(nil, base) should return base")
	}
	if got := merge(base, nil); got != base {
		t.Error("merge(base, nil) should return base")
	}
}

func TestMerge_SlicesReplaceEntirely(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	override := &config.Config{}
	override.Review.Ignore = []string{"only/**"}

	merged := merge(base, override)

	if len(merged.Review.Ignore) != 1 || merged.Review.Ignore[0] != "only/**" {
		t.Errorf("expected override ignore list to replace base, got %v", merged.Review.Ignore)
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	first := &config.Config{}
	first.Provider.Model = "first"
	second := &config.Config{}
	second.Provider.Model = "second"

	merged := MergeAll(config.NewConfig(), first, second)
	if merged.Provider.Model != "second" {
		t.Errorf("expected last config to win, got %q", merged.Provider.Model)
	}

	if MergeAll() != nil {
		t.Error("MergeAll() with no configs should return nil")
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	err := &ValidationError{
		Field:    "provider.name",
		Value:    "bogus",
		Message:  "invalid provider",
		FilePath: "/tmp/.gorevise.yml",
	}

	msg := err.Error()
	for _, want := range []string{"/tmp/.gorevise.yml", "provider.name", "invalid provider"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in error message %q", want, msg)
		}
	}
}
