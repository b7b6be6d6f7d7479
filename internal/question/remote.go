package question

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// FetchRemote downloads a JSON question bank from url.
func FetchRemote(ctx context.Context, client *resty.Client, url string) (*Catalog, error) {
	if client == nil {
		client = resty.New()
	}

	var bank bankFile
	res, err := client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&bank).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("client.R.Get(%s) > %w", url, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}

	catalog, err := NewCatalog(bank.Questions)
	if err != nil {
		return nil, fmt.Errorf("NewCatalog > %w", err)
	}
	return catalog, nil
}
