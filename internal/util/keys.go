package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// generateRandomToken : генерирует случайный токен длиной length символов
func generateRandomToken(length int) (string, error) {
	byteLength := (length + 1) / 2 // т.к. hex кодирует 1 байт = 2 символа
	bytes := make([]byte, byteLength)

	_, err := rand.Read(bytes)
	if err != nil {
		return "", LogError("[util] ошибка генерации токена", err)
	}

	return hex.EncodeToString(bytes)[:length], nil
}

// ConversionKey : ключ попытки конвертации, производный от (uuid документа, момент
// запуска). Пространство имён отдельное от ключей сессий: ключ живёт одну попытку,
// повторная отправка того же ключа опрашивает уже идущую задачу, а не создаёт новую.
func ConversionKey(documentUUID string) (string, error) {
	suffix, err := generateRandomToken(6)
	if err != nil {
		return "", err
	}

	short := documentUUID
	if len(short) > 8 {
		short = short[:8]
	}

	return fmt.Sprintf("conv-%s-%d-%s", short, time.Now().UnixNano(), suffix), nil
}
