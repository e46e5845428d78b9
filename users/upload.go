// Profile-image upload. Only image-typed files are accepted, sniffed from
// content rather than trusted from the filename, and a rejected upload never
// touches either the filesystem or the user row.
package users

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/user/turismo-go/apperror"
	"github.com/user/turismo-go/auth"
)

// maxUploadBytes caps a profile image at 5 MiB.
const maxUploadBytes = 5 << 20

// uploadFieldName is the multipart form field the frontend sends.
const uploadFieldName = "image"

// detectImageExt sniffs the payload and returns the canonical extension for
// its type, or an error when it is not an image at all.
func detectImageExt(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	if !mtype.Is("image/jpeg") && !mtype.Is("image/png") && !mtype.Is("image/gif") && !mtype.Is("image/webp") {
		// mimetype's hierarchy check covers oddballs too: anything under
		// image/* that we don't explicitly allow still gets a proper answer.
		ok := false
		for m := mtype; m != nil; m = m.Parent() {
			if len(m.String()) >= 6 && m.String()[:6] == "image/" {
				ok = true
				break
			}
		}
		if !ok {
			return "", fmt.Errorf("unsupported content type %s", mtype.String())
		}
	}
	return mtype.Extension(), nil
}

// storedImageName builds the stable on-disk name: owner id, upload timestamp,
// sniffed extension.
func storedImageName(userID int, at time.Time, ext string) string {
	return fmt.Sprintf("%d-%d%s", userID, at.UnixMilli(), ext)
}

// HandleUploadProfileImage handles PUT /users/{id}/profile-image. Route
// wiring guarantees the caller already passed the owner-or-admin predicate.
func (h *Handlers) HandleUploadProfileImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid user id", nil))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("no image was uploaded", err))
			return
		}

		file, _, err := r.FormFile(uploadFieldName)
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("no image was uploaded", err))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("failed to read uploaded file", err))
			return
		}

		ext, err := detectImageExt(data)
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("only image files are allowed", err))
			return
		}

		name := storedImageName(userID, time.Now(), ext)
		diskPath := filepath.Join(h.uploadDir, name)
		if err := os.WriteFile(diskPath, data, 0o644); err != nil {
			auth.WriteError(w, r, apperror.NewInternalError("failed to store profile image", err))
			return
		}

		relPath := "/uploads/" + name
		if err := h.service.SetProfileImage(r.Context(), userID, relPath); err != nil {
			// The row update failed, so the file must not survive either.
			os.Remove(diskPath)
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, UploadImageResponse{
			Message:      "profile image updated successfully",
			ProfileImage: relPath,
		})
	}
}
