package userservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с UserService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCustomer получает профиль клиента по ID
func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	url := fmt.Sprintf("%s/internal/customers/%d", c.baseURL, customerID)

	var customer Customer
	if err := c.getJSON(ctx, url, &customer, ErrCustomerNotFound); err != nil {
		return nil, err
	}

	return &customer, nil
}

// GetVehicle получает автомобиль по ID
// Принадлежность автомобиля клиенту проверяет вызывающая сторона по OwnerID
func (c *Client) GetVehicle(ctx context.Context, vehicleID int64) (*Vehicle, error) {
	url := fmt.Sprintf("%s/internal/vehicles/%d", c.baseURL, vehicleID)

	var vehicle Vehicle
	if err := c.getJSON(ctx, url, &vehicle, ErrVehicleNotFound); err != nil {
		return nil, err
	}

	return &vehicle, nil
}

// getJSON выполняет GET запрос и декодирует JSON-ответ
// notFoundErr возвращается на 404
func (c *Client) getJSON(ctx context.Context, url string, dst interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid request to %s", ErrInvalidResponse, url)
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
