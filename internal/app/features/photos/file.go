// internal/app/features/photos/file.go
package photos

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"slices"
	"strconv"
	"time"

	photostore "github.com/dalemusser/nurseryhome/internal/app/store/photos"
	"github.com/dalemusser/nurseryhome/internal/app/system/authz"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /photos/{photoID}/file, GET /family/photos/{photoID}/file               |
*─────────────────────────────────────────────────────────────────────────────*/

// ServePhoto streams one photo's bytes. Staff and admins may fetch any photo;
// a family member only photos of residents linked to them. Photos the caller
// may not see answer 404 so their existence is not revealed.
func (h *Handler) ServePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "photoID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Photos.GetByID(ctx, id)
	if errors.Is(err, photostore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load photo failed", err, "Không thể tải hình ảnh.", "/",
			zap.String("photo_id", id.Hex()))
		return
	}

	allowed, err := h.canView(ctx, r, p)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "check photo access failed", err, "/family/photos",
			zap.String("photo_id", id.Hex()))
		return
	}
	if !allowed {
		h.Log.Warn("photo access denied",
			zap.String("photo_id", id.Hex()),
			zap.String("resident_id", p.ResidentID))
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=3600")

	if local, ok := h.Files.(*storage.Local); ok {
		full, err := local.GetFullPath(p.StoragePath)
		if err != nil {
			h.Log.Error("resolve photo path failed", zap.String("path", p.StoragePath), zap.Error(err))
			http.NotFound(w, r)
			return
		}
		// Only regular files; a record pointing at a directory must not list it.
		if fi, err := os.Stat(full); err != nil || !fi.Mode().IsRegular() {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, full)
		return
	}

	// Remote backends hand out a short-lived signed URL.
	signed, err := h.Files.PresignedURL(ctx, p.StoragePath, &storage.PresignOptions{Expires: 15 * time.Minute})
	if err == nil {
		http.Redirect(w, r, signed, http.StatusFound)
		return
	}
	if !errors.Is(err, storage.ErrPresignNotSupported) {
		h.ErrLog.LogServerError(w, r, "presign photo failed", err, "Không thể tải hình ảnh.", "/",
			zap.String("path", p.StoragePath))
		return
	}
	h.stream(ctx, w, r, p)
}

// stream copies the object through the app for backends without signed URLs.
func (h *Handler) stream(ctx context.Context, w http.ResponseWriter, r *http.Request, p models.Photo) {
	body, info, err := h.Files.GetWithInfo(ctx, p.StoragePath)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "read photo failed", err, "Không thể tải hình ảnh.", "/",
			zap.String("path", p.StoragePath))
		return
	}
	defer body.Close()

	ct := p.ContentType
	if info != nil && info.ContentType != "" {
		ct = info.ContentType
	}
	w.Header().Set("Content-Type", ct)
	if info != nil && info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		h.Log.Warn("stream photo interrupted", zap.String("path", p.StoragePath), zap.Error(err))
	}
}

// canView reports whether the signed-in user may see p.
func (h *Handler) canView(ctx context.Context, r *http.Request, p models.Photo) (bool, error) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	switch role {
	case models.RoleAdmin, models.RoleStaff:
		return true, nil
	case models.RoleFamily:
		residents, err := h.Residents.GetByFamilyMemberID(ctx, userID)
		if err != nil {
			return false, err
		}
		return slices.Contains(residentIDs(residents), p.ResidentID), nil
	}
	return false, nil
}
