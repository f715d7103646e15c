// Package stats invokes the external statistical collaborator. All model
// fitting, hypothesis testing, clustering and plotting happens in R; the Go
// side only hands over resolved formulas and file paths and relays the JSON
// result back to the caller.
package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"time"

	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

// Result is the decoded JSON document an analysis script prints on stdout.
type Result map[string]interface{}

// Runner executes a named analysis script with JSON-encoded arguments.
type Runner interface {
	Run(ctx context.Context, script string, args map[string]interface{}) (Result, error)
}

// RscriptRunner runs analysis scripts through the Rscript binary.
type RscriptRunner struct {
	bin       string
	scriptDir string
	workDir   string
	timeout   time.Duration
	log       *logger.Logger
}

// NewRscriptRunner creates a runner. scriptDir holds the .R analysis
// scripts; workDir is the session directory datasets and plots live in.
func NewRscriptRunner(bin, scriptDir, workDir string, timeout time.Duration) *RscriptRunner {
	return &RscriptRunner{
		bin:       bin,
		scriptDir: scriptDir,
		workDir:   workDir,
		timeout:   timeout,
		log:       logger.Get().With("component", "rscript"),
	}
}

// Run executes scriptDir/<script>.R with args passed as a single JSON
// argument and decodes the JSON document the script prints.
func (r *RscriptRunner) Run(ctx context.Context, script string, args map[string]interface{}) (Result, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, errors.Wrap(err, "marshal script args")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	scriptPath := filepath.Join(r.scriptDir, script+".R")
	cmd := exec.CommandContext(ctx, r.bin, scriptPath, string(payload))
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debugw("running analysis script", "script", script)
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrapf(errors.ErrTimeout, "script %s", script)
		}
		return nil, errors.Wrapf(errors.ErrExternal, "script %s: %v: %s", script, err, stderr.String())
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, errors.Wrapf(err, "decode output of script %s", script)
	}

	if msg, failed := result["error"].(string); failed && msg != "" {
		return nil, errors.Wrapf(errors.ErrExternal, "script %s: %s", script, msg)
	}
	return result, nil
}
