package main

import (
	"path/filepath"
	"testing"
)

func TestEvalCmdRequiresAQuery(t *testing.T) {
	if err := evalCmd(nil); err == nil {
		t.Errorf("expected an error with no query")
	}
}

func TestEvalCmdEvaluatesAQuery(t *testing.T) {
	withTempDataFlag(t, `{"name":"ada"}`)
	if err := evalCmd([]string{"name"}); err != nil {
		t.Fatalf("evalCmd: %v", err)
	}
}

func TestEvalCmdRejectsUnknownDebugLevel(t *testing.T) {
	withTempDataFlag(t, `{"name":"ada"}`)
	prev := cfg.DebugLevel
	cfg.DebugLevel = "verbose"
	t.Cleanup(func() { cfg.DebugLevel = prev })

	if err := evalCmd([]string{"name"}); err == nil {
		t.Errorf("expected an error for an unknown debug_level")
	}
}

func TestEvalCmdRejectsUnknownDatasourceKind(t *testing.T) {
	withTempDataFlag(t, `{"name":"ada"}`)
	prev := cfg.Datasource.Kind
	cfg.Datasource.Kind = "mongo"
	t.Cleanup(func() { cfg.Datasource.Kind = prev })

	if err := evalCmd([]string{"name"}); err == nil {
		t.Errorf("expected an error for an unknown datasource kind")
	}
}

func TestEvalCmdReportsEngineLoadErrors(t *testing.T) {
	prev := *dataFlag
	*dataFlag = filepath.Join(t.TempDir(), "nope.json")
	t.Cleanup(func() { *dataFlag = prev })

	if err := evalCmd([]string{"name"}); err == nil {
		t.Errorf("expected an error for a missing data file")
	}
}
