package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avtomir/ASC-BookingService/internal/api/handlers"
	"github.com/avtomir/ASC-BookingService/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

// Auth извлекает идентификатор и роль актора из заголовков запроса
// Аутентификацию выполняет API gateway, сервис доверяет заголовкам
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(headerUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок "+headerUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок "+headerUserID)
			return
		}

		role, err := domain.ParseRole(r.Header.Get(headerUserRole))
		if err != nil {
			handlers.RespondUnauthorized(w, "некорректный заголовок "+headerUserRole)
			return
		}

		actor := domain.Actor{ID: userID, Role: role}
		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor возвращает актора, помещенного в контекст middleware Auth
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}
