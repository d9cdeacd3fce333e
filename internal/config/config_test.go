package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL", "LLM_TEMPERATURE", "LLM_MAX_TOKENS",
		"API_KEY", "GEMINI_API_KEY", "ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "LOG_LEVEL", "LOG_DEVELOPMENT", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.Server.Addr)
	}
	if cfg.AI.Provider != ProviderGemini {
		t.Fatalf("expected gemini provider, got %s", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected default model %s", cfg.AI.Model)
	}
	if cfg.AI.Enabled() {
		t.Fatal("expected AI disabled without api key")
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("expected info log level, got %s", cfg.Log.Level)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadGenericAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "generic")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.AI.APIKey != "generic" || !cfg.AI.Enabled() {
		t.Fatalf("expected generic key to enable provider, got %+v", cfg.AI)
	}
}

func TestLoadProviderSpecificKeyWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("API_KEY", "generic")
	t.Setenv("OPENAI_API_KEY", "specific")
	t.Setenv("LLM_TEMPERATURE", "0.2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.AI.Provider != ProviderOpenAI {
		t.Fatalf("expected openai provider, got %s", cfg.AI.Provider)
	}
	if cfg.AI.APIKey != "specific" {
		t.Fatalf("expected provider key, got %s", cfg.AI.APIKey)
	}
	if cfg.AI.Temperature == nil || *cfg.AI.Temperature != 0.2 {
		t.Fatalf("expected temperature 0.2, got %v", cfg.AI.Temperature)
	}
	if cfg.AI.DisplayName() != "OpenAI" {
		t.Fatalf("unexpected display name %s", cfg.AI.DisplayName())
	}
}

func TestLoadArkRequiresModel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "ark")
	t.Setenv("ARK_ACCESS_KEY", "ak")
	t.Setenv("ARK_SECRET_KEY", "sk")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.AI.Enabled() {
		t.Fatal("expected ark disabled without an endpoint model id")
	}
	if cfg.AI.BaseURL == "" || cfg.AI.Region != "cn-beijing" {
		t.Fatalf("expected ark defaults, got base=%q region=%q", cfg.AI.BaseURL, cfg.AI.Region)
	}

	t.Setenv("LLM_MODEL", "ep-2024")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.AI.Enabled() {
		t.Fatal("expected ark enabled with AK/SK and model")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "provider", key: "LLM_PROVIDER", val: "mistral"},
		{name: "temperature", key: "LLM_TEMPERATURE", val: "warm"},
		{name: "max tokens", key: "LLM_MAX_TOKENS", val: "0"},
		{name: "port", key: "PORT", val: "80 80"},
		{name: "log level", key: "LOG_LEVEL", val: "verbose"},
		{name: "log development", key: "LOG_DEVELOPMENT", val: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestLoadServerAddrForms(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %s", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://example.com" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
}
