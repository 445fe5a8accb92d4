package confirm_booking

import (
	"time"

	confirmBooking "github.com/avtomir/ASC-BookingService/internal/usecase/confirm_booking"
)

// ConfirmBookingRequest HTTP request model
type ConfirmBookingRequest struct {
	StaffNotes *string `json:"staffNotes,omitempty"`
}

// ConfirmBookingResponse HTTP response model
type ConfirmBookingResponse struct {
	ID            int64   `json:"id"`
	BookingNumber string  `json:"bookingNumber"`
	Status        string  `json:"status"`
	ConfirmedAt   string  `json:"confirmedAt"`
	ConfirmedBy   int64   `json:"confirmedBy"`
	StaffNotes    *string `json:"staffNotes,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmBooking.Response) *ConfirmBookingResponse {
	return &ConfirmBookingResponse{
		ID:            resp.ID,
		BookingNumber: resp.BookingNumber,
		Status:        resp.Status,
		ConfirmedAt:   resp.ConfirmedAt.Format(time.RFC3339),
		ConfirmedBy:   resp.ConfirmedBy,
		StaffNotes:    resp.StaffNotes,
	}
}
