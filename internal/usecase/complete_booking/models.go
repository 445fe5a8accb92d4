package complete_booking

import (
	"time"

	"github.com/avtomir/ASC-BookingService/internal/domain"
)

// Request модель запроса на завершение работ по бронированию
type Request struct {
	Actor      domain.Actor // Аутентифицированный сотрудник
	BookingID  int64        // ID бронирования
	StaffNotes *string      // Итоговые заметки сотрудника (опционально)
}

// Response модель ответа с завершенным бронированием
type Response struct {
	ID            int64     // ID бронирования
	BookingNumber string    // Номер бронирования
	Status        string    // Новый статус (completed)
	CompletedAt   time.Time // Время завершения
	StaffNotes    *string   // Заметки сотрудника
}
