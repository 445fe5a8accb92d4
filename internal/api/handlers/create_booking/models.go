package create_booking

import (
	"time"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	createBooking "github.com/avtomir/ASC-BookingService/internal/usecase/create_booking"
	"github.com/avtomir/ASC-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	VehicleID       int64   `json:"vehicleId"`
	ServiceCenterID int64   `json:"serviceCenterId"`
	ServiceID       int64   `json:"serviceId"`
	BookingDate     string  `json:"bookingDate"` // "2026-03-14"
	BookingTime     string  `json:"bookingTime"` // "10:00"
	CustomerNotes   *string `json:"customerNotes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	BookingNumber string  `json:"bookingNumber"`
	Status        string  `json:"status"`
	CustomerID    int64   `json:"customerId"`
	VehicleID     int64   `json:"vehicleId"`
	CenterID      int64   `json:"serviceCenterId"`
	ServiceID     int64   `json:"serviceId"`
	BookingDate   string  `json:"bookingDate"`
	BookingTime   string  `json:"bookingTime"`
	CustomerNotes *string `json:"customerNotes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	bookingTime := types.TimeString(r.BookingTime)
	if err := bookingTime.Validate(); err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Actor:           actor,
		VehicleID:       r.VehicleID,
		ServiceCenterID: r.ServiceCenterID,
		ServiceID:       r.ServiceID,
		BookingDate:     bookingDate,
		BookingTime:     bookingTime,
		CustomerNotes:   r.CustomerNotes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		BookingNumber: resp.BookingNumber,
		Status:        string(resp.Status),
		CustomerID:    resp.CustomerID,
		VehicleID:     resp.VehicleID,
		CenterID:      resp.CenterID,
		ServiceID:     resp.ServiceID,
		BookingDate:   resp.BookingDate.Format(domain.DateFormat),
		BookingTime:   resp.BookingTime.String(),
		CustomerNotes: resp.CustomerNotes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
