package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"UfoShop/internal/imgproc"
	"UfoShop/internal/model"
	"UfoShop/internal/repo"
	"UfoShop/internal/storage"
)

// Каталоги артефактов в хранилище (как в исходной схеме item_pictures/).
const (
	originalsPrefix  = "item_pictures/originals/"
	squaresPrefix    = "item_pictures/squares/"
	thumbnailsPrefix = "item_pictures/thumbnails/"
)

// DeriveError — восстановимая ошибка генерации производных: запись
// сохранена, производные поля очищены, можно повторить позже.
type DeriveError struct {
	PictureID int64
	Err       error
}

func (e *DeriveError) Error() string {
	return fmt.Sprintf("picture %d: derivatives failed: %v", e.PictureID, e.Err)
}

func (e *DeriveError) Unwrap() error { return e.Err }

// PictureService — явный двухфазный конвейер картинок: сначала персист
// записи и оригинала, затем отдельный вызов генерации производных.
// Никаких скрытых хуков при сохранении.
type PictureService struct {
	pictures repo.PictureRepository
	store    storage.Storage
	logger   *zap.SugaredLogger
}

func NewPictureService(pictures repo.PictureRepository, store storage.Storage, logger *zap.SugaredLogger) *PictureService {
	return &PictureService{pictures: pictures, store: store, logger: logger}
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Upload сохраняет оригинал (с ограничением размера) и запись Picture,
// затем генерирует производные. Ошибка генерации не блокирует сохранение:
// запись остаётся с пустыми производными полями, ошибка — *DeriveError.
func (s *PictureService) Upload(ctx context.Context, itemID, userID int64, fileName string, data []byte) (*model.Picture, error) {
	bounded, err := imgproc.Bound(data)
	if err != nil {
		// оригинал битый — производные всё равно не выйдут, кладём как есть
		s.logger.Warnw("upload: size bounding failed, storing source as-is",
			"item_id", itemID, "file", fileName, "error", err)
		bounded = data
	}

	storedName := uuid.NewString()[:8] + "_" + path.Base(fileName)
	originalPath := originalsPrefix + storedName
	if err := s.store.Store(ctx, originalPath, bounded); err != nil {
		return nil, fmt.Errorf("upload: store original: %w", err)
	}

	p := &model.Picture{
		ItemID:       itemID,
		UserID:       userID,
		FileName:     fileName,
		OriginalPath: originalPath,
		OriginalHash: hashBytes(bounded),
	}
	if err := s.pictures.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("upload: create picture: %w", err)
	}

	if err := s.GenerateDerivatives(ctx, p.ID); err != nil {
		return s.reload(ctx, p.ID, err)
	}
	return s.reload(ctx, p.ID, nil)
}

func (s *PictureService) reload(ctx context.Context, id int64, prior error) (*model.Picture, error) {
	p, err := s.pictures.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, prior
}

// GenerateDerivatives генерирует квадрат и миниатюру под row-level
// блокировкой. Пропускает работу, если производные актуальны (хэш
// оригинала совпадает). При ошибке декодирования очищает производные
// поля и возвращает *DeriveError; ошибки хранилища — транзиентные,
// возвращаются как есть без очистки.
func (s *PictureService) GenerateDerivatives(ctx context.Context, id int64) error {
	var deriveErr *DeriveError

	err := s.pictures.UpdateLocked(ctx, id, func(p *model.Picture) (map[string]any, error) {
		if p.OriginalPath == "" {
			return nil, nil
		}
		src, err := s.store.Read(ctx, p.OriginalPath)
		if err != nil {
			return nil, fmt.Errorf("read original %s: %w", p.OriginalPath, err)
		}
		hash := hashBytes(src)
		if p.Complete() && p.OriginalHash == hash {
			return nil, nil
		}

		derived, err := imgproc.Derive(src, path.Base(p.OriginalPath))
		if err != nil {
			// восстановимо: чистим поля вместо застарелых производных
			deriveErr = &DeriveError{PictureID: id, Err: err}
			return map[string]any{
				"square_path":    "",
				"thumbnail_path": "",
				"original_hash":  hash,
			}, nil
		}

		squarePath := squaresPrefix + derived.SquareName
		thumbPath := thumbnailsPrefix + derived.ThumbnailName
		if err := s.store.Store(ctx, squarePath, derived.Square); err != nil {
			return nil, fmt.Errorf("store square: %w", err)
		}
		if err := s.store.Store(ctx, thumbPath, derived.Thumbnail); err != nil {
			return nil, fmt.Errorf("store thumbnail: %w", err)
		}
		return map[string]any{
			"square_path":    squarePath,
			"thumbnail_path": thumbPath,
			"original_hash":  hash,
		}, nil
	})
	if err != nil {
		return err
	}
	if deriveErr != nil {
		return deriveErr
	}
	return nil
}

// RegenerateAll прогоняет генерацию по всем картинкам. Ошибки отдельных
// картинок логируются, обход продолжается.
func (s *PictureService) RegenerateAll(ctx context.Context) (ok, failed int, err error) {
	pics, err := s.pictures.ListAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, p := range pics {
		if genErr := s.GenerateDerivatives(ctx, p.ID); genErr != nil {
			failed++
			s.logger.Warnw("regenerate: picture failed, continuing",
				"picture_id", p.ID, "error", genErr)
			continue
		}
		ok++
	}
	return ok, failed, nil
}

// Delete удаляет запись и все три файла из хранилища. Отсутствующий
// файл — не ошибка; сироты в хранилище оставаться не должны.
func (s *PictureService) Delete(ctx context.Context, id int64) error {
	p, err := s.pictures.GetByID(ctx, id)
	if err != nil {
		return err
	}
	for _, objPath := range []string{p.OriginalPath, p.SquarePath, p.ThumbnailPath} {
		if objPath == "" {
			continue
		}
		if err := s.store.Delete(ctx, objPath); err != nil {
			return fmt.Errorf("delete picture %d artifact %s: %w", id, objPath, err)
		}
	}
	return s.pictures.Delete(ctx, id)
}
