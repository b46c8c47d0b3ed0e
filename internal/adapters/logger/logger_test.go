package logger_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.kiln.dev/kiln/internal/adapters/logger"
)

func TestLogger_Info(t *testing.T) {
	lg := logger.New()
	lg.Info("some message")
	_ = lg.Close()
}

func TestLogger_Error(t *testing.T) {
	lg := logger.New()
	lg.Error(errors.New("boom"))
	_ = lg.Close()
}

func TestNew(t *testing.T) {
	lg := logger.New()
	if lg == nil {
		t.Fatal("expected New() to return a non-nil logger")
	}
}

func TestLogger_ScopedPrefixesLines(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewForWriter(&buf)
	scoped := lg.Scoped("compile")
	scoped.Info("building")

	if !strings.Contains(buf.String(), "[compile]") {
		t.Errorf("expected scoped output to contain '[compile]', got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "building") {
		t.Errorf("expected scoped output to contain 'building', got: %s", buf.String())
	}
}

func TestLogger_ScopedNestsPrefixes(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewForWriter(&buf)
	nested := lg.Scoped("compile").Scoped("linux")
	nested.Info("done")

	if !strings.Contains(buf.String(), "[compile.linux]") {
		t.Errorf("expected nested scope prefix, got: %s", buf.String())
	}
}

func TestLogger_StreamsAreNonNil(t *testing.T) {
	lg := logger.New()
	if lg.OutStream() == nil || lg.ErrStream() == nil || lg.InStream() == nil {
		t.Fatal("expected all three stdio streams to be non-nil")
	}
}
