package models

import (
	"errors"
	"time"

	"github.com/avtomir/ASC-BookingService/internal/domain"
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований клиента
type GetUserBookingsRequest struct {
	Actor      domain.Actor
	CustomerID int64
	Status     *string
}

// GetCenterBookingsRequest запрос на получение бронирований сервисного центра
type GetCenterBookingsRequest struct {
	Actor            domain.Actor
	ServiceCenterID  int64
	StartDate        *time.Time
	EndDate          *time.Time
	Status           *string
	IncludeCancelled bool
}

// ErrInvalidStatus возвращается при некорректном статусе
var ErrInvalidStatus = errors.New("invalid booking status")

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCenterBookingsRequest) ToDomainFilter() (domain.CenterBookingsFilter, error) {
	filter := domain.CenterBookingsFilter{
		ServiceCenterID:  r.ServiceCenterID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, ok := domain.ParseStatus(*r.Status)
		if !ok {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	BookingNumber   string `json:"bookingNumber"`
	CustomerID      int64  `json:"customerId"`
	VehicleID       int64  `json:"vehicleId"`
	ServiceCenterID int64  `json:"serviceCenterId"`
	ServiceID       int64  `json:"serviceId"`
	BookingDate     string `json:"bookingDate"` // "2026-03-14"
	BookingTime     string `json:"bookingTime"` // "10:00"
	Status          string `json:"status"`

	CustomerNotes *string `json:"customerNotes,omitempty"`
	StaffNotes    *string `json:"staffNotes,omitempty"`

	ConfirmedAt        *string `json:"confirmedAt,omitempty"` // ISO 8601
	ConfirmedBy        *int64  `json:"confirmedBy,omitempty"`
	CompletedAt        *string `json:"completedAt,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CancelledBy        *int64  `json:"cancelledBy,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// HistoryEntryResponse ответ с записью журнала смены статусов
type HistoryEntryResponse struct {
	ID        int64   `json:"id"`
	BookingID int64   `json:"bookingId"`
	OldStatus *string `json:"oldStatus"`
	NewStatus string  `json:"newStatus"`
	ChangedBy int64   `json:"changedBy"`
	ChangedAt string  `json:"changedAt"` // ISO 8601
	Notes     *string `json:"notes,omitempty"`
}

// HistoryResponse ответ с журналом бронирования
type HistoryResponse struct {
	BookingID int64                  `json:"bookingId"`
	Entries   []HistoryEntryResponse `json:"entries"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		BookingNumber:      b.BookingNumber,
		CustomerID:         b.CustomerID,
		VehicleID:          b.VehicleID,
		ServiceCenterID:    b.ServiceCenterID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		BookingTime:        b.BookingTime.String(),
		Status:             string(b.Status),
		CustomerNotes:      b.CustomerNotes,
		StaffNotes:         b.StaffNotes,
		ConfirmedBy:        b.ConfirmedBy,
		CancelledBy:        b.CancelledBy,
		CancellationReason: b.CancellationReason,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	resp.ConfirmedAt = formatTime(b.ConfirmedAt)
	resp.CompletedAt = formatTime(b.CompletedAt)
	resp.CancelledAt = formatTime(b.CancelledAt)

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainHistory конвертирует журнал в DTO, сохраняя порядок записей
func FromDomainHistory(bookingID int64, entries []*domain.StatusHistoryEntry) *HistoryResponse {
	resp := &HistoryResponse{
		BookingID: bookingID,
		Entries:   make([]HistoryEntryResponse, 0, len(entries)),
	}

	for _, e := range entries {
		entry := HistoryEntryResponse{
			ID:        e.ID,
			BookingID: e.BookingID,
			NewStatus: string(e.NewStatus),
			ChangedBy: e.ChangedBy,
			ChangedAt: e.ChangedAt.Format(time.RFC3339),
			Notes:     e.Notes,
		}
		if e.OldStatus != nil {
			old := string(*e.OldStatus)
			entry.OldStatus = &old
		}
		resp.Entries = append(resp.Entries, entry)
	}

	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
