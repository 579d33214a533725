package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
	"github.com/robertgriman1702/daka-technical-assessment/internal/service"
	"github.com/robertgriman1702/daka-technical-assessment/pkg/apierror"
)

type SpriteHandler struct {
	service *service.SpriteService
}

func NewSpriteHandler(service *service.SpriteService) *SpriteHandler {
	return &SpriteHandler{service: service}
}

func (h *SpriteHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.FindAll())
}

func (h *SpriteHandler) Create(w http.ResponseWriter, r *http.Request) {
	sprite, err := h.service.FetchRandom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sprite)
}

func (h *SpriteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apierror.BadRequest("invalid sprite id"))
		return
	}

	if err := h.service.Remove(id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteResult{Deleted: true, ID: id})
}

func (h *SpriteHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	count := h.service.RemoveAll()
	writeJSON(w, http.StatusOK, model.ClearResult{Deleted: true, Count: count})
}
