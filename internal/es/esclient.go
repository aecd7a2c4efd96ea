package es

import (
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
)

// NewClient connects to Elasticsearch and verifies the node responds.
func NewClient(addr, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("es: create client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es: %s: %s", res.Status(), body)
	}
	return client, nil
}
