package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"UfoShop/internal/model"
)

func seedPicture(t *testing.T, db *gorm.DB) *model.Picture {
	t.Helper()
	user := model.User{Email: "pic@test.com"}
	require.NoError(t, db.Create(&user).Error)
	item := model.Item{Name: "Saucer", MerchandiserID: user.ID}
	require.NoError(t, db.Create(&item).Error)
	p := model.Picture{
		ItemID:       item.ID,
		UserID:       user.ID,
		FileName:     "saucer.png",
		OriginalPath: "originals/saucer.png",
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func TestPictureRepository_UpdateLocked(t *testing.T) {
	db := newTestDB(t)
	r := NewPictureRepository(db)
	ctx := context.Background()

	p := seedPicture(t, db)

	err := r.UpdateLocked(ctx, p.ID, func(cur *model.Picture) (map[string]any, error) {
		assert.Equal(t, "originals/saucer.png", cur.OriginalPath)
		return map[string]any{
			"square_path":    "squares/saucer_sq1024.png",
			"thumbnail_path": "thumbnails/saucer_thumb.png",
		}, nil
	})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "squares/saucer_sq1024.png", got.SquarePath)
	assert.Equal(t, "thumbnails/saucer_thumb.png", got.ThumbnailPath)
	assert.True(t, got.Complete())
}

func TestPictureRepository_UpdateLocked_FnErrorRollsBack(t *testing.T) {
	db := newTestDB(t)
	r := NewPictureRepository(db)
	ctx := context.Background()

	p := seedPicture(t, db)
	boom := errors.New("boom")

	err := r.UpdateLocked(ctx, p.ID, func(*model.Picture) (map[string]any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestPictureRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	r := NewPictureRepository(db)
	ctx := context.Background()

	p := seedPicture(t, db)
	require.NoError(t, r.Delete(ctx, p.ID))

	_, err := r.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
