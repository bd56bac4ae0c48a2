package omise

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/httpclient"
)

const (
	SourcesEndpoint = "/sources"
	ChargesEndpoint = "/charges"
)

type Gateway interface {
	CreateSource(ctx context.Context, request CreateSourceRequest) (Source, error)
	CreateCharge(ctx context.Context, request CreateChargeRequest) (Charge, error)
	GetCharge(ctx context.Context, chargeID string) (Charge, error)
}

type gateway struct {
	client httpclient.HTTPClient
	config Config
}

func NewGateway(cfg Config, client httpclient.HTTPClient) Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &gateway{config: cfg, client: client}
}

func (g *gateway) CreateSource(ctx context.Context, request CreateSourceRequest) (Source, error) {
	var source Source
	if err := g.post(ctx, SourcesEndpoint, request, &source); err != nil {
		return Source{}, err
	}

	return source, nil
}

func (g *gateway) CreateCharge(ctx context.Context, request CreateChargeRequest) (Charge, error) {
	var charge Charge
	if err := g.post(ctx, ChargesEndpoint, request, &charge); err != nil {
		return Charge{}, err
	}

	return charge, nil
}

func (g *gateway) GetCharge(ctx context.Context, chargeID string) (Charge, error) {
	resp, err := g.client.Get(ctx, g.config.BaseURL+ChargesEndpoint+"/"+url.PathEscape(chargeID), g.headers())
	if err != nil {
		return Charge{}, mapTransportError(err)
	}

	var charge Charge
	if err := decodeResponse(resp, &charge); err != nil {
		return Charge{}, err
	}

	return charge, nil
}

func (g *gateway) post(ctx context.Context, endpoint string, request any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return fmt.Errorf("encoding error: %w", err)
	}

	resp, err := g.client.Post(ctx, g.config.BaseURL+endpoint, &buf, g.headers())
	if err != nil {
		return mapTransportError(err)
	}

	return decodeResponse(resp, out)
}

func (g *gateway) headers() map[string]string {
	return map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(g.config.SecretKey+":")),
		"Content-Type":  "application/json",
	}
}

func mapTransportError(err error) error {
	if httpclient.IsTimeout(err) {
		return ErrTimeout
	}

	return err
}

type errorBody struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeResponse(resp *http.Response, out any) error {
	body, err := httpclient.ReadBody(resp, 0)
	if err != nil {
		return err
	}

	var apiErr errorBody
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Object == ObjectError {
		return &APIError{StatusCode: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Message}
	}

	if resp.StatusCode != http.StatusOK {
		return MapStatusToError(resp.StatusCode)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decoding error: %w", err)
	}

	return nil
}
