package photos

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// photoFixture stores one PNG on local disk for each resident and returns the
// handler plus the photo per resident.
func photoFixture(t *testing.T, residentIDs ...string) (*Handler, map[string]models.Photo, string) {
	t.Helper()
	root := t.TempDir()
	files, err := storage.NewLocal(storage.LocalConfig{BasePath: root})
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	fp := &fakePhotos{}
	byResident := make(map[string]models.Photo, len(residentIDs))
	for _, rid := range residentIDs {
		p := models.Photo{
			ID:          primitive.NewObjectID(),
			ResidentID:  rid,
			StoragePath: "photos/2026/10/" + rid + ".png",
			ContentType: "image/png",
		}
		if err := files.PutBytes(context.Background(), p.StoragePath, pngBytes, &storage.PutOptions{ContentType: "image/png"}); err != nil {
			t.Fatalf("PutBytes: %v", err)
		}
		fp.created = append(fp.created, p)
		byResident[rid] = p
	}
	return newTestHandler(t, fp, files), byResident, root
}

func getAs(router http.Handler, target string, u *auth.SessionUser) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if u != nil {
		req = auth.WithTestUser(req, u)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var (
	fam1  = &auth.SessionUser{ID: "fam1", Role: models.RoleFamily}
	staff = &auth.SessionUser{ID: "staff1", Role: models.RoleStaff}
)

func TestServePhoto_FamilyOwnResident(t *testing.T) {
	h, photos, _ := photoFixture(t, "r1")

	rec := getAs(FamilyRoutes(h, h.SessionMgr), "/"+photos["r1"].ID.Hex()+"/file", fam1)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), pngBytes) {
		t.Error("body differs from stored photo")
	}
}

func TestServePhoto_FamilyOtherResidentHidden(t *testing.T) {
	h, photos, _ := photoFixture(t, "r1", "r3")

	// fam1 is not linked to r3.
	rec := getAs(FamilyRoutes(h, h.SessionMgr), "/"+photos["r3"].ID.Hex()+"/file", fam1)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), pngBytes[:8]) {
		t.Error("photo bytes leaked")
	}
}

func TestServePhoto_StaffSeesAny(t *testing.T) {
	h, photos, _ := photoFixture(t, "r1", "r3")

	for _, rid := range []string{"r1", "r3"} {
		rec := getAs(Routes(h, h.SessionMgr), "/"+photos[rid].ID.Hex()+"/file", staff)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d", rid, rec.Code)
		}
	}
}

func TestServePhoto_NoDirectoryListing(t *testing.T) {
	h, _, root := photoFixture(t, "r1")
	router := FamilyRoutes(h, h.SessionMgr)

	for _, target := range []string{"/photos/2026/10/", "/photos/2026/10/file", "/not-an-id/file"} {
		rec := getAs(router, target, fam1)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status %d", target, rec.Code)
		}
		if bytes.Contains(rec.Body.Bytes(), []byte("r1.png")) {
			t.Errorf("%s: listing leaked file names", target)
		}
	}

	// A record whose path resolves to a directory is not served either.
	dirPhoto := models.Photo{ID: primitive.NewObjectID(), ResidentID: "r1", StoragePath: "photos/2026/10"}
	h.Photos.(*fakePhotos).created = append(h.Photos.(*fakePhotos).created, dirPhoto)
	if _, err := os.Stat(filepath.Join(root, "photos", "2026", "10")); err != nil {
		t.Fatalf("fixture dir missing: %v", err)
	}
	rec := getAs(router, "/"+dirPhoto.ID.Hex()+"/file", fam1)
	if rec.Code != http.StatusNotFound {
		t.Errorf("directory record: status %d", rec.Code)
	}
}

func TestServePhoto_UnknownID(t *testing.T) {
	h, _, _ := photoFixture(t, "r1")

	rec := getAs(Routes(h, h.SessionMgr), "/"+primitive.NewObjectID().Hex()+"/file", staff)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestServePhoto_MemoryBackendStreams(t *testing.T) {
	fs := newMemFiles()
	p := models.Photo{ID: primitive.NewObjectID(), ResidentID: "r1", StoragePath: "photos/a.png", ContentType: "image/png"}
	if err := fs.PutBytes(context.Background(), p.StoragePath, pngBytes, &storage.PutOptions{ContentType: "image/png"}); err != nil {
		t.Fatal(err)
	}
	h := newTestHandler(t, &fakePhotos{created: []models.Photo{p}}, fs)

	rec := getAs(FamilyRoutes(h, h.SessionMgr), "/"+p.ID.Hex()+"/file", fam1)

	if rec.Code != http.StatusOK || !bytes.Equal(rec.Body.Bytes(), pngBytes) {
		t.Fatalf("got %d, %d bytes", rec.Code, rec.Body.Len())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type: %q", ct)
	}
}
