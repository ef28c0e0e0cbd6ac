package service

import (
	"pdf-editor-server/config"
	"pdf-editor-server/internal/model"
	"pdf-editor-server/internal/security"
	"pdf-editor-server/internal/util"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPConversionClient : клиент сервиса конвертации сервера документов.
// Одна итерация = один POST; сервер по одинаковому ключу возвращает статус
// уже идущей задачи, новой не создаёт.
type HTTPConversionClient struct {
	client       *http.Client
	baseURL      string
	docServerJWT *security.DocServerJWT
}

func NewHTTPConversionClient(cfg *config.DocumentServerConfig, docServerJWT *security.DocServerJWT) *HTTPConversionClient {
	return &HTTPConversionClient{
		client:       &http.Client{Timeout: 30 * time.Second},
		baseURL:      cfg.URL,
		docServerJWT: docServerJWT,
	}
}

func (c *HTTPConversionClient) SubmitOrPoll(ctx context.Context, request *model.ConversionRequest) (*model.ConversionResponse, error) {
	if c.docServerJWT.Enabled() {
		token, err := c.docServerJWT.Sign(map[string]interface{}{
			"url":        request.URL,
			"filetype":   request.Filetype,
			"outputtype": request.Outputtype,
			"key":        request.Key,
		})
		if err != nil {
			return nil, err
		}
		request.Token = token
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, util.LogError("[ConversionClient] ошибка сериализации запроса", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ConvertService.ashx", bytes.NewReader(body))
	if err != nil {
		return nil, util.LogError("[ConversionClient] ошибка создания запроса", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, util.LogError("[ConversionClient] ошибка выполнения запроса", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[ConversionClient] сервис конвертации вернул статус %d", resp.StatusCode)
	}

	var response model.ConversionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, util.LogError("[ConversionClient] ошибка разбора ответа", err)
	}

	return &response, nil
}
