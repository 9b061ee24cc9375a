package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileConfigMissingFileIsNotAnError(t *testing.T) {
	cfg, err := loadFileConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadFileConfig: %v", err)
	}
	if cfg != (fileConfig{}) {
		t.Errorf("expected a zero-value config, got %+v", cfg)
	}
}

func TestLoadFileConfigDecodesKnownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "josson.toml")
	content := `
data = "data.json"
xml = true
debug_level = "array"
bundle_dir = "snapshots"

[dictionary]
kind = "yaml"
path = "dict.yaml"

[datasource]
kind = "sqlite"
dsn = "file.db"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadFileConfig(path)
	if err != nil {
		t.Fatalf("loadFileConfig: %v", err)
	}
	if cfg.Data != "data.json" || !cfg.XML || cfg.DebugLevel != "array" || cfg.BundleDir != "snapshots" {
		t.Errorf("got %+v", cfg)
	}
	if cfg.Dictionary.Kind != "yaml" || cfg.Dictionary.Path != "dict.yaml" {
		t.Errorf("got dictionary %+v", cfg.Dictionary)
	}
	if cfg.Datasource.Kind != "sqlite" || cfg.Datasource.DSN != "file.db" {
		t.Errorf("got datasource %+v", cfg.Datasource)
	}
}

func TestLoadFileConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "josson.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFileConfig(path); err == nil {
		t.Errorf("expected an error for a malformed config file")
	}
}

func TestResolverSourcesEmptyKindsYieldNilFinders(t *testing.T) {
	dict, data, err := fileConfig{}.resolverSources()
	if err != nil {
		t.Fatalf("resolverSources: %v", err)
	}
	if dict != nil || data != nil {
		t.Errorf("expected both finders nil, got dict=%v data=%v", dict, data)
	}
}

func TestResolverSourcesUnknownDictionaryKind(t *testing.T) {
	var c fileConfig
	c.Dictionary.Kind = "ini"
	if _, _, err := c.resolverSources(); err == nil {
		t.Errorf("expected an error for an unknown dictionary kind")
	}
}

func TestResolverSourcesUnknownDatasourceKind(t *testing.T) {
	var c fileConfig
	c.Datasource.Kind = "mongo"
	if _, _, err := c.resolverSources(); err == nil {
		t.Errorf("expected an error for an unknown datasource kind")
	}
}

func TestResolverSourcesLoadsYAMLDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.yaml")
	if err := os.WriteFile(path, []byte("greeting: \"'hi'\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var c fileConfig
	c.Dictionary.Kind = "yaml"
	c.Dictionary.Path = path
	dict, data, err := c.resolverSources()
	if err != nil {
		t.Fatalf("resolverSources: %v", err)
	}
	if data != nil {
		t.Errorf("expected a nil data finder")
	}
	q, ok := dict("greeting")
	if !ok || q != "'hi'" {
		t.Errorf("got q=%q ok=%v", q, ok)
	}
}

func TestResolverSourcesLoadsTOMLDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.toml")
	if err := os.WriteFile(path, []byte("greeting = \"'hi'\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var c fileConfig
	c.Dictionary.Kind = "toml"
	c.Dictionary.Path = path
	dict, _, err := c.resolverSources()
	if err != nil {
		t.Fatalf("resolverSources: %v", err)
	}
	q, ok := dict("greeting")
	if !ok || q != "'hi'" {
		t.Errorf("got q=%q ok=%v", q, ok)
	}
}

func TestResolverSourcesLoadsSQLiteDatasource(t *testing.T) {
	var c fileConfig
	c.Datasource.Kind = "sqlite"
	c.Datasource.DSN = filepath.Join(t.TempDir(), "data.db")
	dict, data, err := c.resolverSources()
	if err != nil {
		t.Fatalf("resolverSources: %v", err)
	}
	if dict != nil {
		t.Errorf("expected a nil dictionary finder")
	}
	if data == nil {
		t.Errorf("expected a non-nil data finder")
	}
}
