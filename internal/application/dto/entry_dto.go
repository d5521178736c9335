package dto

import "time"

// DateLayout formato de fecha aceptado en las entradas.
const DateLayout = "2006-01-02"

// EntryItemInput línea recibida del suplidor.
type EntryItemInput struct {
	ArticleID string `json:"articulo_id" validate:"required,uuid"`
	Quantity  int    `json:"cantidad" validate:"gt=0"`
}

// CreateEntryRequest entrada para registrar mercancía recibida.
type CreateEntryRequest struct {
	OrderDigits string           `json:"digitos_orden" validate:"required,len=4,numeric"`
	Date        string           `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Supplier    string           `json:"suplidor" validate:"required,max=200"`
	Items       []EntryItemInput `json:"articulos" validate:"required,min=1,dive"`
}

// EntryItemResponse línea de una entrada.
type EntryItemResponse struct {
	ArticleID   string `json:"articulo_id"`
	Code        string `json:"codigo"`
	Description string `json:"descripcion"`
	Quantity    int    `json:"cantidad"`
}

// EntryResponse salida de una entrada de mercancía.
type EntryResponse struct {
	ID          string              `json:"id"`
	EntryNumber string              `json:"numero_entrada"`
	OrderNumber string              `json:"numero_orden"`
	Date        time.Time           `json:"fecha"`
	Supplier    string              `json:"suplidor"`
	ReceivedBy  string              `json:"recibido_por"`
	Items       []EntryItemResponse `json:"articulos"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NextOrderResponse sugerencia del siguiente número de orden del año.
type NextOrderResponse struct {
	Year        int    `json:"anio"`
	Digits      string `json:"digitos_orden"`
	OrderNumber string `json:"numero_orden"`
}
