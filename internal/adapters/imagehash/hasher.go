package imagehash

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"
)

// Hasher считает перцептивный хэш фотографии. Хэш пишется рядом с
// фотографией и позволяет находить повторные загрузки одного снимка.
type Hasher struct{}

func NewHasher() *Hasher {
	return &Hasher{}
}

func (h *Hasher) Hash(content []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	hash, err := goimagehash.AverageHash(img)
	if err != nil {
		return "", fmt.Errorf("failed to hash image: %w", err)
	}
	return hash.ToString(), nil
}
