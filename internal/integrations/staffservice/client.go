package staffservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Client клиент справочника мастеров (staff service)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника мастеров
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProvider получает мастера по ID
func (c *Client) GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error) {
	url := fmt.Sprintf("%s/internal/providers/%d", c.baseURL, providerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrProviderNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var provider Provider
	if err := json.NewDecoder(resp.Body).Decode(&provider); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &domain.Provider{
		ID:       provider.ID,
		Name:     provider.Name,
		IsActive: provider.IsActive,
	}, nil
}

// EnsureActiveProvider проверяет, что мастер существует и принимает записи
// Неактивный мастер считается отсутствующим
func (c *Client) EnsureActiveProvider(ctx context.Context, providerID int64) error {
	provider, err := c.GetProvider(ctx, providerID)
	if errors.Is(err, ErrProviderNotFound) {
		c.log.Info("Provider not found: provider_id=%d", providerID)
		return err
	}
	if err != nil {
		c.log.Error("Staff service unavailable for provider_id=%d: %v", providerID, err)
		return err
	}

	if !provider.IsActive {
		c.log.Info("Provider is inactive: provider_id=%d", providerID)
		return fmt.Errorf("%w: provider %d is inactive", ErrProviderNotFound, providerID)
	}

	return nil
}
