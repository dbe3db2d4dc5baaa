package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemHandler_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	body := bytes.NewBufferString(fmt.Sprintf(
		`{"name":"UFO Model X","price":"99.99","merchandiser_id":%d}`, user.ID))
	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", "application/json")
	rr := do(t, env.router, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		ID    int64  `json:"id"`
		Price string `json:"price"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "99.99", created.Price)

	rr = do(t, env.router, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/items/%d", created.ID), nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, env.router, httptest.NewRequest(http.MethodGet, "/api/items/9999", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestItemHandler_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	// без имени
	req := httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewBufferString(`{"price":"1.00"}`))
	assert.Equal(t, http.StatusBadRequest, do(t, env.router, req).Code)

	// кривая цена
	req = httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewBufferString(`{"name":"x","price":"cheap"}`))
	assert.Equal(t, http.StatusBadRequest, do(t, env.router, req).Code)
}

func TestItemHandler_CreateVariant(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	parent := env.seedItem(t, user.ID, "UFO Model X", "99.99")

	url := fmt.Sprintf("/api/items/%d/variants", parent.ID)

	// без цвета — 400
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewBufferString(`{"name":"no color"}`))
	assert.Equal(t, http.StatusBadRequest, do(t, env.router, req).Code)

	req = httptest.NewRequest(http.MethodPost, url,
		bytes.NewBufferString(`{"name":"UFO Model X (red)","price":"104.99","color":"red"}`))
	rr := do(t, env.router, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var v struct {
		IsVariant    bool   `json:"is_variant"`
		ParentItemID *int64 `json:"parent_item_id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	assert.True(t, v.IsVariant)
	require.NotNil(t, v.ParentItemID)
	assert.Equal(t, parent.ID, *v.ParentItemID)

	// несуществующий родитель — 404
	req = httptest.NewRequest(http.MethodPost, "/api/items/9999/variants",
		bytes.NewBufferString(`{"name":"ghost","color":"red"}`))
	assert.Equal(t, http.StatusNotFound, do(t, env.router, req).Code)
}
