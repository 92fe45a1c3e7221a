package entities

import "time"

// Item - предмет каталога (материал или услуга).
type Item struct {
	ID          uint64
	Name        string
	Description string
}

// Department - суд/подразделение, от имени которого подается заявка.
type Department struct {
	ID      uint64
	Name    string
	Code    int
	Address string
}

// RequestDocument - файл, приложенный к заявке (сгенерированный PDF,
// подписанный PDF, вложения секретаря).
type RequestDocument struct {
	ID           uint64
	RequestID    uint64
	DocumentType string
	FilePath     string
	FileName     string
	Size         int64
	CreatedAt    time.Time
}
