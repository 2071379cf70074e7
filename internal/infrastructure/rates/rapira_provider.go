package rates

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type RapiraItem struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}

type RapiraResponse struct {
	Ask struct {
		Direction    string       `json:"direction"`
		Symbol       string       `json:"symbol"`
		MaxAmount    float64      `json:"max_amount"`
		MinAmount    float64      `json:"min_amount"`
		HighestPrice float64      `json:"highest_price"`
		LowestPrice  float64      `json:"lowest_price"`
		Items        []RapiraItem `json:"items"`
	}
}

// RapiraProvider serves USD quotes from an in-memory cache refreshed from the
// Rapira order book. USDT is pinned to 1.0: every other coin is quoted
// against it.
type RapiraProvider struct {
	baseURL     string
	ordersDepth int
	httpClient  *http.Client

	mu     sync.RWMutex
	quotes map[string]float64
}

func NewRapiraProvider(baseURL string, ordersDepth int) *RapiraProvider {
	return &RapiraProvider{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		ordersDepth: ordersDepth,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		quotes:      make(map[string]float64),
	}
}

func (p *RapiraProvider) USDPrice(currency string) (float64, error) {
	currency = strings.ToUpper(currency)
	if currency == "USDT" {
		return 1.0, nil
	}

	p.mu.RLock()
	price, ok := p.quotes[currency]
	p.mu.RUnlock()
	if !ok || price <= 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrRateUnavailable, currency)
	}
	return price, nil
}

// Refresh fetches fresh quotes for every currency and swaps them into the
// cache. A failed symbol does not discard the others.
func (p *RapiraProvider) Refresh(currencies []string) error {
	var lastErr error
	for _, currency := range currencies {
		currency = strings.ToUpper(currency)
		if currency == "USDT" {
			continue
		}
		price, err := p.fetchUSDTRate(currency)
		if err != nil {
			lastErr = err
			continue
		}
		p.mu.Lock()
		p.quotes[currency] = price
		p.mu.Unlock()
	}
	return lastErr
}

func (p *RapiraProvider) fetchUSDTRate(currency string) (float64, error) {
	response, err := p.httpClient.Get(fmt.Sprintf("%s/market/exchange-plate-mini?symbol=%s/USDT", p.baseURL, currency))
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, err
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var rapiraResponse RapiraResponse
		if err := json.Unmarshal(responseBodyBytes, &rapiraResponse); err != nil {
			return 0, err
		}
		depth := p.ordersDepth
		if depth > len(rapiraResponse.Ask.Items) {
			depth = len(rapiraResponse.Ask.Items)
		}
		if depth == 0 {
			return 0, status.Error(codes.Internal, "empty order book for "+currency)
		}
		avgPrice := float64(0.0)
		for i := 0; i < depth; i++ {
			avgPrice += rapiraResponse.Ask.Items[i].Price
		}
		avgPrice /= float64(depth)
		return avgPrice, nil
	}

	return 0, status.Error(codes.Internal, "failed to count "+currency+" average price in USDT")
}
