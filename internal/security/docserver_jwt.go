package security

import (
	"pdf-editor-server/config"
	"pdf-editor-server/internal/util"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthorized = errors.New("подпись запроса не прошла проверку")

// DocServerJWT : подпись и проверка токенов при обмене с сервером документов.
// Секрет инжектируется при конструировании, не читается из окружения по месту —
// функция проверки остаётся чистой и тестируемой с подставными секретами.
type DocServerJWT struct {
	secret string
}

func NewDocServerJWT(cfg *config.DocumentServerConfig) *DocServerJWT {
	return &DocServerJWT{secret: cfg.Secret}
}

// Enabled : секрет задан, подпись обязательна.
// Пустой секрет — осознанное доверие вызывающему (политика деплоя, не баг).
func (s *DocServerJWT) Enabled() bool {
	return s.secret != ""
}

// Sign : подписывает полезную нагрузку для исходящих запросов
// (конфигурация редактора, запрос конвертации)
func (s *DocServerJWT) Sign(payload map[string]interface{}) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(time.Now())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", util.LogError("[DocServerJWT] ошибка подписи токена", err)
	}

	return signed, nil
}

// VerifyRequest : проверяет входящий callback. Токен берётся из заголовка
// Authorization (Bearer) либо из поля token в теле; отсутствие токена при
// заданном секрете — отказ.
func (s *DocServerJWT) VerifyRequest(r *http.Request, bodyToken string) error {
	if !s.Enabled() {
		return nil
	}

	tokenString := bodyToken
	if header := r.Header.Get("Authorization"); header != "" {
		tokenString = strings.TrimPrefix(header, "Bearer ")
	}
	if tokenString == "" {
		return ErrUnauthorized
	}

	return s.verifyToken(tokenString)
}

func (s *DocServerJWT) verifyToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return ErrUnauthorized
	}

	return nil
}
