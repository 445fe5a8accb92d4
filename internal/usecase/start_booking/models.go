package start_booking

import (
	"github.com/avtomir/ASC-BookingService/internal/domain"
)

// Request модель запроса на начало работ по бронированию
type Request struct {
	Actor     domain.Actor // Аутентифицированный сотрудник
	BookingID int64        // ID бронирования
}

// Response модель ответа
type Response struct {
	ID            int64  // ID бронирования
	BookingNumber string // Номер бронирования
	Status        string // Новый статус (in_progress)
}
