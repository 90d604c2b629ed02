package port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// GeocoderPort - контракт внешнего геокодера. Resolve никогда не
// возвращает ошибку: сбой геокодирования не должен блокировать
// создание или обновление объявления, причина кладется в Precision.
type GeocoderPort interface {
	Resolve(ctx context.Context, address string) domain.GeocodeResult
}
