// Package hooks runs user scripts at points of the toast lifecycle.
//
// Scripts live in {hooks_dir}/{point}/ and run in name order. Each receives
// the event as TOAST_* environment variables.
package hooks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/toastq/internal/config"
	"github.com/cristianoliveira/toastq/internal/logging"
)

// Hook points.
const (
	PostEnqueue = "post-enqueue"
	PostUpdate  = "post-update"
	PostDismiss = "post-dismiss"
	AutoClose   = "auto-close"
	PreCleanup  = "pre-cleanup"
	PostCleanup = "post-cleanup"
)

// Points lists every hook point.
var Points = []string{PostEnqueue, PostUpdate, PostDismiss, AutoClose, PreCleanup, PostCleanup}

// Failure modes.
const (
	FailIgnore = "ignore"
	FailWarn   = "warn"
	FailAbort  = "abort"
)

// Options configures a Runner.
type Options struct {
	Enabled      bool
	Dir          string
	FailureMode  string
	Async        bool
	AsyncTimeout time.Duration
	MaxAsync     int
	// Output receives script output. Defaults to stderr.
	Output io.Writer
	Logger logging.Logger
}

// OptionsFromConfig reads hook options from the global config.
func OptionsFromConfig() Options {
	return Options{
		Enabled:      config.GetBool("hooks_enabled", true),
		Dir:          config.Get("hooks_dir", ""),
		FailureMode:  config.Get("hooks_failure_mode", FailWarn),
		Async:        config.GetBool("hooks_async", false),
		AsyncTimeout: time.Duration(config.GetInt("hooks_async_timeout", 30)) * time.Second,
		MaxAsync:     config.GetInt("max_hooks", 10),
		Logger:       logging.GetGlobal(),
	}
}

// Runner executes hook scripts.
type Runner struct {
	opts Options

	mu      sync.Mutex
	pending int
	wg      sync.WaitGroup

	outMu sync.Mutex
}

// NewRunner creates a runner. Zero options fall back to defaults.
func NewRunner(opts Options) *Runner {
	if opts.FailureMode == "" {
		opts.FailureMode = FailWarn
	}
	if opts.AsyncTimeout <= 0 {
		opts.AsyncTimeout = 30 * time.Second
	}
	if opts.MaxAsync <= 0 {
		opts.MaxAsync = 10
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	opts.Logger = opts.Logger.With("component", "hooks")
	return &Runner{opts: opts}
}

// EnsureDirs creates the hooks directory and one subdirectory per point.
func (r *Runner) EnsureDirs() error {
	if r.opts.Dir == "" {
		return fmt.Errorf("hooks directory is not set")
	}
	for _, point := range Points {
		dir := filepath.Join(r.opts.Dir, point)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create hooks directory %s: %w", dir, err)
		}
	}
	return nil
}

type script struct {
	path string
	name string
}

func (r *Runner) scripts(point string) []script {
	dir := filepath.Join(r.opts.Dir, point)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []script
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		out = append(out, script{path: filepath.Join(dir, e.Name()), name: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Run executes the scripts for point. In abort mode the first failing
// synchronous script stops the run and its error is returned.
func (r *Runner) Run(ctx context.Context, point string, env map[string]string) error {
	if !r.opts.Enabled || r.opts.Dir == "" {
		return nil
	}
	scripts := r.scripts(point)
	if len(scripts) == 0 {
		return nil
	}
	environ := r.environ(point, env)
	r.opts.Logger.Debug("running hooks", "point", point, "count", len(scripts))

	for _, s := range scripts {
		if r.opts.Async {
			r.startAsync(s, point, environ)
			continue
		}
		if err := r.runSync(ctx, s, environ); err != nil {
			switch r.opts.FailureMode {
			case FailAbort:
				return fmt.Errorf("hook %s/%s failed: %w", point, s.name, err)
			case FailWarn:
				r.opts.Logger.Warn("hook failed", "point", point, "script", s.name, "error", err)
				r.write([]byte(fmt.Sprintf("warning: hook %s/%s failed: %v\n", point, s.name, err)))
			}
		}
	}
	return nil
}

func (r *Runner) environ(point string, env map[string]string) []string {
	out := os.Environ()
	out = append(out,
		"HOOK_POINT="+point,
		"HOOK_TIMESTAMP="+time.Now().UTC().Format(time.RFC3339),
		"TOASTQ_HOOKS_FAILURE_MODE="+r.opts.FailureMode,
	)
	if exe, err := os.Executable(); err == nil {
		out = append(out, "TOASTQ_BINARY="+exe)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

func (r *Runner) runSync(ctx context.Context, s script, environ []string) error {
	start := time.Now()
	cmd := exec.CommandContext(ctx, s.path)
	cmd.Env = environ
	// children that keep the output pipe open must not outlive the timeout
	cmd.WaitDelay = time.Second
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	if buf.Len() > 0 {
		r.write(buf.Bytes())
	}
	if err != nil {
		if out := strings.TrimSpace(buf.String()); out != "" {
			return fmt.Errorf("%w: %s", err, out)
		}
		return err
	}
	r.opts.Logger.Debug("hook completed", "script", s.name, "duration", time.Since(start))
	return nil
}

func (r *Runner) startAsync(s script, point string, environ []string) {
	r.mu.Lock()
	if r.pending >= r.opts.MaxAsync {
		r.mu.Unlock()
		r.opts.Logger.Warn("too many async hooks pending, skipping", "max", r.opts.MaxAsync, "script", s.name)
		return
	}
	r.pending++
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			r.pending--
			r.mu.Unlock()
			r.wg.Done()
		}()
		ctx, cancel := context.WithTimeout(context.Background(), r.opts.AsyncTimeout)
		defer cancel()
		err := r.runSync(ctx, s, environ)
		if ctx.Err() == context.DeadlineExceeded {
			r.opts.Logger.Warn("async hook timed out", "point", point, "script", s.name, "timeout", r.opts.AsyncTimeout)
		}
		if err != nil && r.opts.FailureMode != FailIgnore {
			r.opts.Logger.Warn("async hook failed", "point", point, "script", s.name, "error", err)
		}
	}()
}

func (r *Runner) write(p []byte) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	r.opts.Output.Write(p)
}

// Pending returns the number of async hooks still running.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Wait blocks until every async hook has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
