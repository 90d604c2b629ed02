package port

// PhotoHasherPort - перцептивный хэш изображения для выявления
// дубликатов фотографий. Вычисление best-effort.
type PhotoHasherPort interface {
	Hash(content []byte) (string, error)
}
