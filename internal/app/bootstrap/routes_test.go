package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/nurseryhome/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Files under upload_path are reachable only through the per-photo routes,
// never as a browsable directory.
func TestBuildHandler_UploadDirNotExposed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root := t.TempDir()
	dir := filepath.Join(root, "photos", "2026", "10")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "resident.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig()
	cfg.UploadPath = root
	cfg.SessionKey = strings.Repeat("k", 32)
	cfg.SessionName = "nh-test"
	cfg.SessionMaxAge = time.Hour

	core := &config.CoreConfig{Env: "test"}
	deps := DBDeps{NurseryHomeMongoClient: db.Client(), NurseryHomeMongoDatabase: db}
	logger := zap.NewNop()
	if err := Startup(ctx, core, cfg, deps, logger); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	h, err := BuildHandler(core, cfg, deps, logger)
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	for _, target := range []string{
		"/uploads/photos/2026/10/",
		"/uploads/photos/2026/10/resident.jpg",
		"/family/photos/photos/2026/10/",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code == http.StatusOK {
			t.Errorf("%s: served with 200", target)
		}
		body := rec.Body.String()
		if strings.Contains(body, "resident.jpg") || body == "jpeg" {
			t.Errorf("%s: upload contents leaked", target)
		}
	}
}
