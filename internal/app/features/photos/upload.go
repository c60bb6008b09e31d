// internal/app/features/photos/upload.go
package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/formutil"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedTypes maps sniffed content types to stored file extensions.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /photos/upload                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	form := inputval.PhotoForm{ResidentID: query.Get(r, "residentId")}
	h.renderUpload(w, r, form, nil, h.SessionMgr.PopFlash(w, r))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /photos/upload                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the text fields around the file part.
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes+(1<<20))
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			var res inputval.Result
			res.Add("photo", h.tooLargeMessage())
			h.renderUpload(w, r, inputval.PhotoForm{}, &res, nil)
			return
		}
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", "/photos/upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := inputval.PhotoForm{
		ResidentID:   strings.TrimSpace(r.FormValue("resident_id")),
		Caption:      strings.TrimSpace(r.FormValue("caption")),
		ActivityType: normalize.Status(r.FormValue("activity_type")),
	}
	res := inputval.Validate(form)

	file, header, err := r.FormFile("photo")
	if err != nil {
		res.Add("photo", "Vui lòng chọn ảnh để tải lên.")
	} else {
		defer file.Close()
	}

	var body io.Reader
	var contentType string
	if file != nil {
		switch {
		case header.Size > h.MaxBytes:
			res.Add("photo", h.tooLargeMessage())
		default:
			body, contentType, err = sniff(file)
			if err != nil {
				res.Add("photo", "Không đọc được tệp ảnh.")
			} else if _, ok := allowedTypes[contentType]; !ok {
				res.Add("photo", "Chỉ chấp nhận ảnh JPEG, PNG, GIF hoặc WebP.")
			}
		}
	}
	if res.HasErrors() {
		h.renderUpload(w, r, form, &res, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	resident, err := h.Residents.GetByID(ctx, form.ResidentID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load resident failed", err, "/photos/upload",
			zap.String("resident_id", form.ResidentID))
		return
	}

	storagePath := photoPath(time.Now().UTC(), contentType)
	if err := h.Files.Put(ctx, storagePath, body, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.ErrLog.LogServerError(w, r, "store photo failed", err, "Không thể lưu ảnh. Vui lòng thử lại.", "/photos/upload")
		return
	}

	u, _ := auth.CurrentUser(r)
	photo := models.Photo{
		ResidentID:   resident.ID,
		ResidentName: resident.FullName,
		Caption:      form.Caption,
		ActivityType: form.ActivityType,
		FileName:     header.Filename,
		StoragePath:  storagePath,
		ContentType:  contentType,
		SizeBytes:    header.Size,
	}
	if u != nil {
		photo.UploadedByID = u.ID
		photo.UploadedByName = u.Name
	}

	if _, err := h.Photos.Create(ctx, photo); err != nil {
		if derr := h.Files.Delete(ctx, storagePath); derr != nil {
			h.Log.Warn("remove orphaned photo failed", zap.String("path", storagePath), zap.Error(derr))
		}
		h.ErrLog.LogServerError(w, r, "save photo metadata failed", err, "Không thể lưu ảnh. Vui lòng thử lại.", "/photos/upload")
		return
	}

	if u != nil {
		h.AuditLog.PhotoUploaded(r.Context(), r, u.ID, resident.ID, header.Filename)
	}
	if err := h.SessionMgr.SetFlash(w, r, auth.Flash{
		Kind:    auth.FlashSuccess,
		Title:   "Tải ảnh thành công!",
		Message: "Ảnh của " + resident.FullName + " đã được chia sẻ với gia đình.",
		NextURL: "/photos",
		Delay:   h.PostActionDelay,
	}); err != nil {
		h.Log.Warn("set flash failed", zap.Error(err))
	}
	http.Redirect(w, r, "/photos/upload", http.StatusSeeOther)
}

// sniff detects the content type from the file's leading bytes, ignoring the
// client-supplied name, and returns a reader that still yields the whole file.
func sniff(f multipart.File) (io.Reader, string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), f), storage.DetectContentType("", head), nil
}

// photoPath is photos/YYYY/MM/<uuid><ext>.
func photoPath(now time.Time, contentType string) string {
	return fmt.Sprintf("photos/%04d/%02d/%s%s", now.Year(), now.Month(), uuid.NewString(), allowedTypes[contentType])
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("Ảnh vượt quá giới hạn %d MB.", h.MaxBytes>>20)
}

func (h *Handler) renderUpload(w http.ResponseWriter, r *http.Request, form inputval.PhotoForm, res *inputval.Result, flash *auth.Flash) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	residents, err := h.Residents.GetAll(ctx)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load residents failed", err, "/photos")
		return
	}

	data := uploadData{
		Form:       form,
		Residents:  residents,
		Activities: activityOptions,
		MaxMB:      h.MaxBytes >> 20,
	}
	formutil.SetBase(&data.Base, r, "Tải ảnh lên", "/photos")
	data.Flash = flash
	if res != nil {
		data.SetErrors(*res)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	templates.Render(w, r, "photo_upload", &data)
}
