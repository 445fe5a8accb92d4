package outbox

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("outbox.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("outbox.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("outbox.repository: failed to scan row")

	// ErrMarshalEvent возвращается при ошибке сериализации события
	ErrMarshalEvent = errors.New("outbox.repository: failed to marshal event")
)
