package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/clubops/club-system/middleware"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
	"github.com/go-chi/chi/v5"
)

type NewsHandler struct {
	newsService services.NewsService
}

func NewNewsHandler(newsService services.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateNewsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	authorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	input.AuthorID = &authorID

	article, err := h.newsService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusCreated, article)
}

// Get resolves the path parameter as a numeric ID or a slug.
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	article, err := h.newsService.GetByIdentifier(r.Context(), identifier)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, article)
}

func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListNewsFilter{
		ListParams: parseListParams(r),
		Published:  queryBool(r, "published"),
		AuthorID:   queryInt(r, "author_id"),
	}

	articles, total, err := h.newsService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	listResponse(w, r, articles, filter.ListParams, total)
}

func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "identifier")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateNewsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	article, err := h.newsService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, article)
}

func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "identifier")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.newsService.Delete(r.Context(), id, &actorID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *NewsHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "identifier")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("cover")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get cover file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for cover"))
		return
	}

	article, err := h.newsService.UploadCover(r.Context(), id, file, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, article)
}
