package userservice

// Customer модель профиля клиента из UserService
type Customer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

// Vehicle модель автомобиля из UserService
type Vehicle struct {
	ID           int64  `json:"id"`
	OwnerID      int64  `json:"owner_id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"license_plate"`
	Year         int    `json:"year"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
