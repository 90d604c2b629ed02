package slugger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-service/internal/core/domain"

	"github.com/gosimple/slug"
)

// SlugProbe - примитив проверки занятости slug в хранилище.
// Возвращает domain.ErrListingNotFound, если slug свободен.
type SlugProbe interface {
	IDBySlug(ctx context.Context, slug string) (int64, error)
}

// Generator подбирает уникальный URL-safe идентификатор объявления.
//
// Цикл подбора - это check-then-write без блокировок: при одновременном
// создании объявлений с одинаковой базой обе горутины могут пройти
// проверку. Корректность обеспечивает уникальный индекс на listings.slug,
// проигранная гонка всплывает как domain.ErrSlugTaken при вставке.
type Generator struct {
	probe SlugProbe
}

func NewGenerator(probe SlugProbe) (*Generator, error) {
	if probe == nil {
		return nil, fmt.Errorf("slugger: probe cannot be nil")
	}
	return &Generator{probe: probe}, nil
}

// Generate строит slug из адреса и короткого описания. excludeID > 0
// исключает из проверки само редактируемое объявление: обновление без
// смены адреса и описания не должно конфликтовать со своим же slug.
func (g *Generator) Generate(ctx context.Context, address, shortDescription string, excludeID int64) (string, error) {
	base := strings.TrimSpace(strings.TrimSpace(address) + " " + strings.TrimSpace(shortDescription))
	if base == "" {
		// Синтетическая база: id известен только при обновлении
		if excludeID > 0 {
			base = fmt.Sprintf("property-%d", excludeID)
		} else {
			base = fmt.Sprintf("property-%d", time.Now().UnixMilli())
		}
	}

	baseSlug := slug.MakeLang(base, "ru")
	candidate := baseSlug

	for counter := 1; ; counter++ {
		existingID, err := g.probe.IDBySlug(ctx, candidate)
		if errors.Is(err, domain.ErrListingNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to probe slug %q: %w", candidate, err)
		}
		if existingID == excludeID {
			// Slug занят самим редактируемым объявлением
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", baseSlug, counter)
	}
}
