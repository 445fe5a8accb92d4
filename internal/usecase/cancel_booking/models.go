package cancel_booking

import (
	"time"

	"github.com/avtomir/ASC-BookingService/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	Actor              domain.Actor // Аутентифицированный актор (клиент или сотрудник)
	BookingID          int64        // ID бронирования
	CancellationReason string       // Причина отмены (обязательна)
}

// Response модель ответа с отмененным бронированием
type Response struct {
	ID                 int64     // ID бронирования
	BookingNumber      string    // Номер бронирования
	Status             string    // Новый статус (cancelled)
	CancelledAt        time.Time // Время отмены
	CancelledBy        int64     // ID отменившего актора
	CancellationReason string    // Причина отмены
}
