package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/airtouch/internal/logging"
)

// recorder saves the request it receives next to its executable.
const recorder = `#!/bin/sh
cat > "$(dirname "$0")/request.json"
echo '{"success":true}'
`

func newTestDispatcher(t *testing.T, bindings []Binding) (*Dispatcher, string) {
	t.Helper()

	tmpDir := t.TempDir()
	dir := writePlugin(t, tmpDir, "recorder", recorder, "press")

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	d, err := NewDispatcher(manager, NewExecutor(5*time.Second), bindings, logging.Discard())
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	t.Cleanup(d.Close)
	return d, filepath.Join(dir, "request.json")
}

func TestDispatcher_Dispatch(t *testing.T) {
	skipOnWindows(t)

	d, out := newTestDispatcher(t, []Binding{{
		Button: 1,
		Plugin: "recorder",
		Action: "press",
		Config: map[string]any{"key": "space"},
	}})

	if !d.Bound(1) || d.Bound(0) {
		t.Fatal("Bound() does not match bindings")
	}
	if d.Dispatch(0, "") {
		t.Error("Dispatch on unbound button returned true")
	}
	if !d.Dispatch(1, "Closed Hand") {
		t.Fatal("Dispatch on bound button returned false")
	}
	d.Wait()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("plugin did not run: %v", err)
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("bad request json %q: %v", data, err)
	}
	if req.Button != 1 || req.Action != "press" || req.Gesture != "Closed Hand" {
		t.Errorf("request = %+v", req)
	}
	if string(req.Config) != `{"key":"space"}` {
		t.Errorf("config = %s", req.Config)
	}
}

func TestDispatcher_SkipsUnknownPluginAndAction(t *testing.T) {
	skipOnWindows(t)

	d, out := newTestDispatcher(t, []Binding{
		{Button: 0, Plugin: "ghost", Action: "press"},
		{Button: 1, Plugin: "recorder", Action: "launch"},
	})

	if !d.Dispatch(0, "") || !d.Dispatch(1, "") {
		t.Fatal("Dispatch returned false for bound buttons")
	}
	d.Wait()

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("plugin ran for an unsupported action")
	}
}

func TestDispatcher_Closed(t *testing.T) {
	d, _ := newTestDispatcher(t, []Binding{{Button: 2, Plugin: "recorder", Action: "press"}})
	d.Close()

	if d.Dispatch(2, "") {
		t.Error("Dispatch after Close returned true")
	}
}

func TestNewDispatcher_DuplicateButton(t *testing.T) {
	_, err := NewDispatcher(NewManager(""), NewExecutor(0), []Binding{
		{Button: 3, Plugin: "a"},
		{Button: 3, Plugin: "b"},
	}, nil)
	if err == nil {
		t.Fatal("expected error for duplicate binding")
	}
}
