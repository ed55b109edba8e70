package schema

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"tfsmith/internal/logging"
)

// CommandRunner executes an external command in a working directory and
// returns its stdout. It exists so exporter tests can stub the terraform
// binary.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w (stderr: %s)",
			name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Exporter obtains a provider schema document by driving the terraform CLI:
// it writes a minimal root configuration into a scratch directory, runs
// `terraform init`, then captures `terraform providers schema -json`.
type Exporter struct {
	Runner CommandRunner
}

// NewExporter returns an Exporter backed by os/exec.
func NewExporter() *Exporter {
	return &Exporter{Runner: ExecRunner{}}
}

// Export produces the schema document for one provider and writes it to
// outPath. The scratch directory is removed afterward; removal failures are
// retried because provider plugins can linger with read-only permission bits.
func (e *Exporter) Export(ctx context.Context, supplier, name, version, outPath string) error {
	scratch, err := os.MkdirTemp("", "tfsmith-schema-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer func() {
		if rmErr := removeAllForce(scratch); rmErr != nil {
			logging.SchemaError("could not remove scratch dir %s: %v", scratch, rmErr)
		}
	}()

	rootConfig := fmt.Sprintf(`terraform {
  required_providers {
    %[1]s = {
      source  = %[2]q
      version = %[3]q
    }
  }
}

provider %[1]q {
  features {}
}
`, name, supplier+"/"+name, version)

	if err := os.WriteFile(filepath.Join(scratch, "main.tf"), []byte(rootConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write root config: %w", err)
	}

	logging.SchemaDebug("running terraform init for %s/%s %s", supplier, name, version)
	if _, err := e.Runner.Run(ctx, scratch, "terraform", "init"); err != nil {
		return fmt.Errorf("terraform init failed: %w", err)
	}

	logging.SchemaDebug("exporting provider schema")
	out, err := e.Runner.Run(ctx, scratch, "terraform", "providers", "schema", "-json")
	if err != nil {
		return fmt.Errorf("schema export failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create schema output dir: %w", err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write schema document: %w", err)
	}
	return nil
}

// SchemaFileName is the conventional name for an exported schema document.
func SchemaFileName(name, version string) string {
	return fmt.Sprintf("%s_%s_schema.json", name, version)
}

// removeAllForce removes a directory tree, clearing read-only bits and
// retrying. Provider binaries unpacked by terraform init are read-only on
// some platforms.
func removeAllForce(path string) error {
	var lastErr error
	for i := 0; i < 10; i++ {
		if err := os.RemoveAll(path); err == nil {
			return nil
		} else {
			lastErr = err
		}
		_ = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err == nil {
				_ = os.Chmod(p, 0o700)
			}
			return nil
		})
		time.Sleep(200 * time.Millisecond)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return lastErr
}
