package confirm_booking

import (
	"time"

	"github.com/avtomir/ASC-BookingService/internal/domain"
)

// Request модель запроса на подтверждение бронирования
type Request struct {
	Actor      domain.Actor // Аутентифицированный сотрудник
	BookingID  int64        // ID бронирования
	StaffNotes *string      // Заметки сотрудника (опционально)
}

// Response модель ответа с подтвержденным бронированием
type Response struct {
	ID            int64     // ID бронирования
	BookingNumber string    // Номер бронирования
	Status        string    // Новый статус (confirmed)
	ConfirmedAt   time.Time // Время подтверждения
	ConfirmedBy   int64     // ID подтвердившего сотрудника
	StaffNotes    *string   // Заметки сотрудника
}
