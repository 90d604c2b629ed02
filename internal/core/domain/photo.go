package domain

import "time"

// Photo - фотография объявления. Для объявления хотя бы с одной
// фотографией ровно одна имеет IsMain = true.
type Photo struct {
	ID        int64
	ListingID int64
	URL       string
	IsMain    bool
	PHash     *string
	CreatedAt time.Time
}

// NewPhoto - данные для вставки новой фотографии. Флаг главного фото
// назначается хранилищем внутри транзакции вставки.
type NewPhoto struct {
	URL   string
	PHash *string
}

// UploadFile - загружаемый файл фотографии в порядке загрузки.
type UploadFile struct {
	Name    string
	Content []byte
}

// AssignMainFlags возвращает флаги главного фото для пакета из count
// новых фотографий: первая становится главной, только если главного
// фото у объявления еще нет.
func AssignMainFlags(hasExistingMain bool, count int) []bool {
	flags := make([]bool, count)
	if count > 0 && !hasExistingMain {
		flags[0] = true
	}
	return flags
}

// PromoteCandidate выбирает фотографию, которая должна стать главной
// после удаления текущей главной: самая ранняя по времени загрузки.
// Возвращает nil, если фотографий не осталось.
func PromoteCandidate(photos []Photo) *Photo {
	var best *Photo
	for i := range photos {
		p := &photos[i]
		if best == nil {
			best = p
			continue
		}
		if p.CreatedAt.Before(best.CreatedAt) ||
			(p.CreatedAt.Equal(best.CreatedAt) && p.ID < best.ID) {
			best = p
		}
	}
	return best
}
