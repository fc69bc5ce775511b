package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/unimate-app/unimate-backend/internal/middleware"
	"github.com/unimate-app/unimate-backend/internal/models"
	"github.com/unimate-app/unimate-backend/internal/store"
)

const (
	announcementUploadFolder = "unimate/announcements"
	maxAnnouncementFormSize  = 10 << 20 // 10MB
)

// AnnouncementHandler serves the campus announcement feed.
type AnnouncementHandler struct {
	announcements AnnouncementStore
	users         UserStore
	uploader      Uploader // nil when Cloudinary is not configured
}

func NewAnnouncementHandler(announcements AnnouncementStore, users UserStore, uploader Uploader) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements, users: users, uploader: uploader}
}

// Create handles POST /announcement/create: multipart form with a required
// message and an optional image. The author is always the authenticated
// identity, and only administrators may post.
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	author, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		log.Printf("Failed to load author: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create announcement")
		return
	}
	if !author.IsAdmin {
		respondError(w, http.StatusForbidden, "Administrator privileges required")
		return
	}

	if err := r.ParseMultipartForm(maxAnnouncementFormSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	message := strings.TrimSpace(r.FormValue("message"))
	if message == "" {
		respondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	var imageURL string
	if file, fileHeader, err := r.FormFile("image"); err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			respondError(w, http.StatusBadRequest, "Invalid image upload")
			return
		}
	} else {
		file.Close()
		if h.uploader == nil {
			respondError(w, http.StatusInternalServerError, "Image uploads are not available")
			return
		}
		imageURL, err = h.uploader.UploadFileFromHeader(r.Context(), fileHeader, announcementUploadFolder)
		if err != nil {
			log.Printf("Failed to upload announcement image: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to upload image")
			return
		}
	}

	announcement := &models.Announcement{
		UserID:  author.ID.String(),
		Message: message,
		Image:   imageURL,
	}

	if err := h.announcements.Create(r.Context(), announcement); err != nil {
		log.Printf("Failed to create announcement: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create announcement")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"message":      "Announcement created successfully",
		"announcement": announcement,
	})
}

// List handles GET /announcement/ with limit/skip pagination, newest first.
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int64(20)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	var skip int64
	if raw := r.URL.Query().Get("skip"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
			skip = n
		}
	}

	announcements, total, err := h.announcements.List(r.Context(), limit, skip)
	if err != nil {
		log.Printf("Failed to list announcements: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load announcements")
		return
	}
	if announcements == nil {
		announcements = []models.Announcement{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"announcements": announcements,
		"has_more":      skip+int64(len(announcements)) < total,
		"total":         total,
	})
}
