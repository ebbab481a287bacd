package cnpjlookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zopumarket/zopumarket/internal/config"
)

func newTestClient(handler http.HandlerFunc) (*Client, func()) {
	server := httptest.NewServer(handler)
	client := NewClient(config.CNPJLookupConfig{BaseURL: server.URL, TimeoutMS: 2000})
	return client, server.Close
}

func TestLookupParsesRegistryRecord(t *testing.T) {
	client, closeFn := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/11222333000181" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cnpj": "11222333000181",
			"razao_social": "ACME CONSULTORIA LTDA",
			"nome_fantasia": "Acme",
			"cnae_fiscal": 6204000,
			"cnae_fiscal_descricao": "Consultoria em TI",
			"municipio": "SAO PAULO",
			"uf": "SP",
			"data_inicio_atividade": "2015-03-10",
			"descricao_situacao_cadastral": "ATIVA",
			"cnaes_secundarios": [{"codigo": 6201501}, {"codigo": 0}]
		}`))
	})
	defer closeFn()

	info, err := client.Lookup(context.Background(), "11222333000181")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if info.LegalName != "ACME CONSULTORIA LTDA" {
		t.Fatalf("legal name = %q", info.LegalName)
	}
	if info.CNAEPrincipal != "6204000" {
		t.Fatalf("cnae principal = %q", info.CNAEPrincipal)
	}
	if len(info.CNAESecundario) != 1 || info.CNAESecundario[0] != "6201501" {
		t.Fatalf("cnae secundario = %v", info.CNAESecundario)
	}
}

func TestLookupNotFound(t *testing.T) {
	client, closeFn := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer closeFn()

	_, err := client.Lookup(context.Background(), "11222333000181")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupServerError(t *testing.T) {
	client, closeFn := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer closeFn()

	_, err := client.Lookup(context.Background(), "11222333000181")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
