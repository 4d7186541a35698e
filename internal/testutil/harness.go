package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/specarith/internal/app"
	"github.com/vk/specarith/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// Results returns the per-equation results of the run, or nil when the app
// did not start.
func (r *HarnessResult) Results() []app.Result {
	if r.App == nil {
		return nil
	}
	return r.App.Results()
}

// Find returns the result for the named derived equation.
func (r *HarnessResult) Find(name string) (app.Result, bool) {
	for _, res := range r.Results() {
		if res.Name == name {
			return res, true
		}
	}
	return app.Result{}, false
}

// RunSessionTest provides a standardized harness for running integration tests
// using a default background context.
func RunSessionTest(t *testing.T, files map[string]string, configure ...func(*app.Config)) *HarnessResult {
	t.Helper()
	return RunSessionTestWithContext(context.Background(), t, files, configure...)
}

// RunSessionTestWithContext writes files into a temporary session directory,
// loads it with the HCL loader and runs the app. configure functions may
// adjust the app configuration before start.
func RunSessionTestWithContext(ctx context.Context, t *testing.T, files map[string]string, configure ...func(*app.Config)) *HarnessResult {
	t.Helper()

	// 1. Write all HCL files to a temporary session directory. Relative
	//    names such as "extra/more.hcl" create subdirectories.
	sessionDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(sessionDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	// 2. Configure the app.
	appConfig := &app.Config{
		SessionPath: sessionDir,
		LogLevel:    "debug",
		LogFormat:   "text",
	}
	for _, fn := range configure {
		fn(appConfig)
	}

	outBuffer := &SafeBuffer{}
	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(outBuffer, logBuffer, appConfig, hcl.NewLoader())
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output:    outBuffer.String(),
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv("SPECARITH_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Output:    outBuffer.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
