package domain

// Словарь точности геокодирования, от самого точного к наименее точному
// (порядок соответствует документации Яндекс Геокодера).
const (
	PrecisionExact    = "exact"    // точный адрес (дом, строение)
	PrecisionNumber   = "number"   // номер дома
	PrecisionNear     = "near"     // рядом с домом
	PrecisionStreet   = "street"   // улица
	PrecisionDistrict = "district" // район
	PrecisionLocality = "locality" // населённый пункт
	PrecisionOther    = "other"    // всё остальное
)

// Причины отсутствия координат в результате
const (
	GeocodeNone     = "none"      // пустой адрес, запрос не выполнялся
	GeocodeNotFound = "not_found" // провайдер ничего не нашёл
	GeocodeNoCoords = "no_coords" // кандидаты без разбираемых координат
	GeocodeError    = "error"     // транспортная ошибка или некорректный ответ
)

// precisionRank задает порядок сортировки кандидатов. Неизвестная
// точность считается "other".
var precisionRank = map[string]int{
	PrecisionExact:    0,
	PrecisionNumber:   1,
	PrecisionNear:     2,
	PrecisionStreet:   3,
	PrecisionDistrict: 4,
	PrecisionLocality: 5,
	PrecisionOther:    6,
}

// PrecisionRank возвращает ранг точности для сортировки кандидатов.
func PrecisionRank(precision string) int {
	if rank, ok := precisionRank[precision]; ok {
		return rank
	}
	return precisionRank[PrecisionOther]
}

// GeoCandidate - один кандидат ответа геокодера в провайдеро-независимом виде.
type GeoCandidate struct {
	Latitude  float64
	Longitude float64
	HasCoords bool
	Precision string
}

// BestCandidate выбирает наиболее точного кандидата с валидными
// координатами. Возвращает nil, если подходящих нет.
func BestCandidate(candidates []GeoCandidate) *GeoCandidate {
	var best *GeoCandidate
	for i := range candidates {
		c := &candidates[i]
		if !c.HasCoords {
			continue
		}
		if best == nil || PrecisionRank(c.Precision) < PrecisionRank(best.Precision) {
			best = c
		}
	}
	return best
}

// GeocodeResult - результат геокодирования адреса. Координаты либо
// заданы обе, либо обе nil, а Precision содержит причину отсутствия.
type GeocodeResult struct {
	Latitude  *float64
	Longitude *float64
	Precision string
}

// Resolved сообщает, удалось ли получить координаты.
func (r GeocodeResult) Resolved() bool {
	return r.Latitude != nil && r.Longitude != nil
}
