package model

import "time"

// Picture — фотография товара и три её артефакта в хранилище.
// OriginalPath может быть очищен после генерации производных.
// OriginalHash — SHA-256 исходника; по нему решаем, нужна ли регенерация.
type Picture struct {
	ID int64 `gorm:"primaryKey"`

	ItemID int64 `gorm:"not null;index"`
	Item   *Item `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	UserID int64 `gorm:"not null;index"` // кто загрузил
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	FileName string `gorm:"size:255;not null"`

	OriginalPath  string `gorm:"size:500"`
	OriginalHash  string `gorm:"size:64"`
	SquarePath    string `gorm:"size:500"`
	ThumbnailPath string `gorm:"size:500"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Complete сообщает, готова ли картинка к показу: оба производных артефакта
// на месте. Исходник может быть уже удалён — это не мешает готовности.
func (p *Picture) Complete() bool {
	return p.SquarePath != "" && p.ThumbnailPath != ""
}

// NeedsDerivatives — есть исходник, но производные не сгенерированы.
func (p *Picture) NeedsDerivatives() bool {
	return p.OriginalPath != "" && !p.Complete()
}
