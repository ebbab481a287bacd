// Package cnpjlookup queries the public company registry (BrasilAPI
// compatible) to prefill partner onboarding data.
package cnpjlookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zopumarket/zopumarket/internal/config"
)

// Errors returned by Lookup.
var (
	ErrNotFound    = errors.New("cnpj not found in registry")
	ErrUnavailable = errors.New("registry unavailable")
)

// CompanyInfo is the registry record for one CNPJ.
type CompanyInfo struct {
	CNPJ           string   `json:"cnpj"`
	LegalName      string   `json:"razao_social"`
	TradeName      string   `json:"nome_fantasia"`
	CNAEPrincipal  string   `json:"cnae_fiscal"`
	CNAEDescricao  string   `json:"cnae_fiscal_descricao"`
	CNAESecundario []string `json:"-"`
	City           string   `json:"municipio"`
	State          string   `json:"uf"`
	OpenedAt       string   `json:"data_inicio_atividade"`
	Status         string   `json:"descricao_situacao_cadastral"`
}

type registryResponse struct {
	CNPJ               string `json:"cnpj"`
	RazaoSocial        string `json:"razao_social"`
	NomeFantasia       string `json:"nome_fantasia"`
	CNAEFiscal         int64  `json:"cnae_fiscal"`
	CNAEDescricao      string `json:"cnae_fiscal_descricao"`
	Municipio          string `json:"municipio"`
	UF                 string `json:"uf"`
	DataInicio         string `json:"data_inicio_atividade"`
	SituacaoCadastral  string `json:"descricao_situacao_cadastral"`
	CNAEsSecundarios   []struct {
		Codigo int64 `json:"codigo"`
	} `json:"cnaes_secundarios"`
}

// Client calls the registry over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a registry client from config.
func NewClient(cfg config.CNPJLookupConfig) *Client {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup fetches the registry record for a normalized 14-digit CNPJ.
func (c *Client) Lookup(ctx context.Context, cnpj string) (*CompanyInfo, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrUnavailable
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, cnpj)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	info := &CompanyInfo{
		CNPJ:          payload.CNPJ,
		LegalName:     payload.RazaoSocial,
		TradeName:     payload.NomeFantasia,
		CNAEDescricao: payload.CNAEDescricao,
		City:          payload.Municipio,
		State:         payload.UF,
		OpenedAt:      payload.DataInicio,
		Status:        payload.SituacaoCadastral,
	}
	if payload.CNAEFiscal > 0 {
		info.CNAEPrincipal = fmt.Sprintf("%d", payload.CNAEFiscal)
	}
	for _, cnae := range payload.CNAEsSecundarios {
		if cnae.Codigo > 0 {
			info.CNAESecundario = append(info.CNAESecundario, fmt.Sprintf("%d", cnae.Codigo))
		}
	}
	return info, nil
}
