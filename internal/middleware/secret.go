// Package middleware содержит HTTP middleware сервиса заказа СИЗ.
package middleware

import (
	"crypto/hmac"
	"net/http"
)

// Заголовок, в котором транспортный адаптер передаёт общий секрет вебхука.
const secretHeader = "X-Webhook-Token"

// SecretMiddleware отклоняет запросы вебхука без корректного общего
// секрета. Пустой секрет отключает проверку: развёртывание за
// доверенным периметром.
type SecretMiddleware struct {
	secret []byte
}

// NewSecretMiddleware создаёт middleware с указанным общим секретом.
func NewSecretMiddleware(secret string) *SecretMiddleware {
	return &SecretMiddleware{secret: []byte(secret)}
}

// Middleware сверяет заголовок запроса с секретом постоянным по времени
// сравнением и пропускает запрос дальше только при совпадении.
func (m *SecretMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(m.secret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		got := []byte(r.Header.Get(secretHeader))
		if !hmac.Equal(got, m.secret) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
