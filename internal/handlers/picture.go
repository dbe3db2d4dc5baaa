package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"UfoShop/internal/config"
	"UfoShop/internal/model"
	"UfoShop/internal/service"
)

// PictureHandler обрабатывает загрузку и жизненный цикл фотографий товара.
type PictureHandler struct {
	PictureService *service.PictureService
	Logger         *zap.SugaredLogger
	Config         *config.Config
}

func NewPictureHandler(pictureService *service.PictureService, logger *zap.SugaredLogger, cfg *config.Config) *PictureHandler {
	return &PictureHandler{PictureService: pictureService, Logger: logger, Config: cfg}
}

type PictureDTO struct {
	ID            int64  `json:"id"`
	ItemID        int64  `json:"item_id"`
	FileName      string `json:"file_name"`
	OriginalPath  string `json:"original_path,omitempty"`
	SquarePath    string `json:"square_path,omitempty"`
	ThumbnailPath string `json:"thumbnail_path,omitempty"`
	Complete      bool   `json:"complete"`
}

func pictureToDTO(p *model.Picture) PictureDTO {
	return PictureDTO{
		ID:            p.ID,
		ItemID:        p.ItemID,
		FileName:      p.FileName,
		OriginalPath:  p.OriginalPath,
		SquarePath:    p.SquarePath,
		ThumbnailPath: p.ThumbnailPath,
		Complete:      p.Complete(),
	}
}

// Upload принимает multipart-форму с файлом `picture` и сохраняет
// оригинал плюс производные. Ошибка генерации производных не валит
// загрузку: запись возвращается с complete=false и кодом 201.
func (h *PictureHandler) Upload(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	// Лимит общего тела запроса
	maxBody := int64(h.Config.UploadMaxMB)*1024*1024 + 1*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.Logger.Warnw("Upload: invalid multipart form", "error", err)
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("picture")
	if err != nil {
		h.Logger.Warnw("Upload: missing picture file", "error", err)
		http.Error(w, "missing picture file", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.Logger.Warnw("Upload: failed to read picture", "error", err)
		http.Error(w, "failed to read picture", http.StatusBadRequest)
		return
	}
	maxFile := int64(h.Config.UploadMaxMB) * 1024 * 1024
	if int64(len(data)) > maxFile {
		h.Logger.Warnw("Upload: payload too large", "item_id", itemID, "size", len(data), "limit", maxFile)
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}

	userID, _ := strconv.ParseInt(r.FormValue("user_id"), 10, 64)

	p, err := h.PictureService.Upload(r.Context(), itemID, userID, header.Filename, data)
	var dErr *service.DeriveError
	if err != nil && !errors.As(err, &dErr) {
		h.Logger.Errorw("Upload: service error", "item_id", itemID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if dErr != nil {
		h.Logger.Warnw("Upload: derivatives failed, original kept", "picture_id", dErr.PictureID, "error", dErr)
	}
	writeJSON(w, http.StatusCreated, pictureToDTO(p))
}

// Regenerate пересобирает производные одной картинки.
func (h *PictureHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid picture id", http.StatusBadRequest)
		return
	}
	err = h.PictureService.GenerateDerivatives(r.Context(), id)
	var dErr *service.DeriveError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "picture not found", http.StatusNotFound)
		return
	case errors.As(err, &dErr):
		// исходник не декодируется; поля очищены, можно перезалить
		http.Error(w, "source not decodable", http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.Logger.Errorw("Regenerate: service error", "picture_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete удаляет запись и все артефакты картинки.
func (h *PictureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid picture id", http.StatusBadRequest)
		return
	}
	err = h.PictureService.Delete(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "picture not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Errorw("Delete: service error", "picture_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
