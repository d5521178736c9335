package entity

import "time"

// EntryItem línea de una entrada de mercancía.
type EntryItem struct {
	ArticleID string
	Quantity  int

	ArticleCode        string
	ArticleDescription string
}

// Entry entrada de mercancía de un suplidor. Las líneas son inmutables.
type Entry struct {
	ID          string
	EntryNumber string // EM-<año>-<secuencia>
	OrderNumber string // INDRHI-DAF-CD-<año>-<4 dígitos>
	Date        time.Time
	Supplier    string
	ReceivedBy  string
	Items       []EntryItem
	CreatedAt   time.Time
}
