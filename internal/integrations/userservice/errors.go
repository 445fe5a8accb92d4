package userservice

import "errors"

var (
	// ErrCustomerNotFound возвращается, когда профиль клиента не найден
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrVehicleNotFound возвращается, когда автомобиль не найден
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")
)
