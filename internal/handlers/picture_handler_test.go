package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"UfoShop/internal/storage"
)

func TestPictureHandler_UploadAndDelete(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	item := env.seedItem(t, user.ID, "UFO Model X", "99.99")

	body, contentType := multipartPicture(t, "ufo.png", pngBytes(t, 300, 200))
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/items/%d/pictures", item.ID), body)
	req.Header.Set("Content-Type", contentType)
	rr := do(t, env.router, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var p struct {
		ID            int64  `json:"id"`
		Complete      bool   `json:"complete"`
		OriginalPath  string `json:"original_path"`
		SquarePath    string `json:"square_path"`
		ThumbnailPath string `json:"thumbnail_path"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.True(t, p.Complete)

	ctx := context.Background()
	for _, path := range []string{p.OriginalPath, p.SquarePath, p.ThumbnailPath} {
		_, err := env.store.Read(ctx, path)
		assert.NoError(t, err, path)
	}

	rr = do(t, env.router, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/pictures/%d", p.ID), nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	for _, path := range []string{p.OriginalPath, p.SquarePath, p.ThumbnailPath} {
		_, err := env.store.Read(ctx, path)
		assert.ErrorIs(t, err, storage.ErrNotFound, path)
	}
}

func TestPictureHandler_UploadCorruptStillCreated(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	item := env.seedItem(t, user.ID, "UFO Model X", "99.99")

	body, contentType := multipartPicture(t, "broken.png", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/items/%d/pictures", item.ID), body)
	req.Header.Set("Content-Type", contentType)
	rr := do(t, env.router, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var p struct {
		ID       int64 `json:"id"`
		Complete bool  `json:"complete"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.False(t, p.Complete, "derive failure keeps the record incomplete")

	// регенерация над битым исходником — 422
	rr = do(t, env.router, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/pictures/%d/regenerate", p.ID), nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestPictureHandler_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	item := env.seedItem(t, user.ID, "UFO Model X", "99.99")

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/items/%d/pictures", item.ID), nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	assert.Equal(t, http.StatusBadRequest, do(t, env.router, req).Code)
}
