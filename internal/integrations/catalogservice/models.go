package catalogservice

// ServiceCenter модель сервисного центра из CatalogService
type ServiceCenter struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	IsActive bool    `json:"is_active"`
	StaffIDs []int64 `json:"staff_ids"`
}

// Service модель услуги из CatalogService
// CenterIDs - список центров, где услуга оказывается
type Service struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Price           *float64 `json:"price,omitempty"`
	DurationMinutes int      `json:"duration_minutes"`
	CenterIDs       []int64  `json:"center_ids"`
}

// OfferedAt возвращает true, если услуга оказывается в указанном центре
func (s *Service) OfferedAt(centerID int64) bool {
	for _, id := range s.CenterIDs {
		if id == centerID {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
