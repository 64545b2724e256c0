package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mdcatalog/backend/config"
	"github.com/mdcatalog/backend/internal/domain"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubOptions returns canned results per method so each handler path can be
// exercised without a live feed.
type stubOptions struct {
	variantOptions []domain.VariantOption
	variantErr     error
	resolved       *domain.ResolvedImage
	resolveErr     error
	searchResults  []map[string]any
	searchErr      error

	lastCode    string
	lastPlating string
	lastStone   string
}

func (s *stubOptions) VariantOptions(ctx context.Context, code, plating, stone string) ([]domain.VariantOption, error) {
	s.lastCode, s.lastPlating, s.lastStone = code, plating, stone
	return s.variantOptions, s.variantErr
}

func (s *stubOptions) ResolveImage(ctx context.Context, code, plating, stone string) (*domain.ResolvedImage, error) {
	s.lastCode, s.lastPlating, s.lastStone = code, plating, stone
	return s.resolved, s.resolveErr
}

func (s *stubOptions) EnrichedSearch(ctx context.Context, params domain.SearchParams) ([]map[string]any, error) {
	return s.searchResults, s.searchErr
}

type stubRelay struct {
	body        string
	contentType string
	err         error
	lastURL     string
}

func (s *stubRelay) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	s.lastURL = rawURL
	if s.err != nil {
		return nil, "", s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), s.contentType, nil
}

func testRouter(options *stubOptions, relay *stubRelay) *gin.Engine {
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.AllowedOrigins = []string{"*"}

	return SetupRouter(cfg, NewHandler(options, relay))
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", w.Body.String(), err)
	}
	return body["detail"]
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(&stubOptions{}, &stubRelay{})

	w := doRequest(t, router, "/health")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want %q", body["status"], "healthy")
	}
	if body["service"] != "mdcatalog-backend" {
		t.Errorf("service field = %q, want %q", body["service"], "mdcatalog-backend")
	}
}

func TestSKUImageOptionsEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubOptions{
			variantOptions: []domain.VariantOption{
				{ProductID: "101", Code: "MD2116.FO.907", RequestedCode: "MD2116"},
			},
		}
		router := testRouter(stub, &stubRelay{})

		w := doRequest(t, router, "/md/sku-image-options?codigo=MD2116&banho=ouro&pedra=ágata")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
		if stub.lastCode != "MD2116" || stub.lastPlating != "ouro" || stub.lastStone != "ágata" {
			t.Errorf("usecase got (%q, %q, %q), want query params forwarded",
				stub.lastCode, stub.lastPlating, stub.lastStone)
		}

		var options []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &options); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(options) != 1 {
			t.Fatalf("len(options) = %d, want 1", len(options))
		}
		if got := options[0]["codigo_completo"]; got != "MD2116.FO.907" {
			t.Errorf("codigo_completo = %v, want %q", got, "MD2116.FO.907")
		}
	})

	t.Run("missing codigo", func(t *testing.T) {
		router := testRouter(&stubOptions{}, &stubRelay{})

		w := doRequest(t, router, "/md/sku-image-options")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if detail := decodeDetail(t, w); detail != "parâmetro 'codigo' é obrigatório" {
			t.Errorf("detail = %q", detail)
		}
	})

	t.Run("no products", func(t *testing.T) {
		router := testRouter(&stubOptions{variantErr: domain.ErrNoProducts}, &stubRelay{})

		w := doRequest(t, router, "/md/sku-image-options?codigo=XX0000")

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
		if detail := decodeDetail(t, w); detail != "Nenhum produto encontrado" {
			t.Errorf("detail = %q", detail)
		}
	})

	t.Run("no options after filtering", func(t *testing.T) {
		router := testRouter(&stubOptions{variantErr: domain.ErrNoOptions}, &stubRelay{})

		w := doRequest(t, router, "/md/sku-image-options?codigo=MD2116&banho=titânio")

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
		if detail := decodeDetail(t, w); detail != "Nenhuma combinação de imagem encontrada para esses filtros" {
			t.Errorf("detail = %q", detail)
		}
	})

	t.Run("feed unavailable", func(t *testing.T) {
		router := testRouter(&stubOptions{variantErr: domain.ErrFeedUnavailable}, &stubRelay{})

		w := doRequest(t, router, "/md/sku-image-options?codigo=MD2116")

		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
		}
		if detail := decodeDetail(t, w); !strings.HasPrefix(detail, "Erro ao consultar VTEX:") {
			t.Errorf("detail = %q, want VTEX error prefix", detail)
		}
	})
}

func TestSKUImageEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubOptions{
			resolved: &domain.ResolvedImage{
				ImageURL:   "https://cdn/907.jpg",
				ProxiedURL: "/image-proxy?url=https%3A%2F%2Fcdn%2F907.jpg",
			},
		}
		router := testRouter(stub, &stubRelay{})

		w := doRequest(t, router, "/md/sku-image?codigo=MD2116&banho=prata")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["image_url"] != "https://cdn/907.jpg" {
			t.Errorf("image_url = %q", body["image_url"])
		}
		if body["proxied_url"] == "" {
			t.Error("proxied_url is empty")
		}
	})

	t.Run("missing codigo", func(t *testing.T) {
		router := testRouter(&stubOptions{}, &stubRelay{})

		w := doRequest(t, router, "/md/sku-image")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("no match", func(t *testing.T) {
		router := testRouter(&stubOptions{resolveErr: domain.ErrNoOptions}, &stubRelay{})

		w := doRequest(t, router, "/md/sku-image?codigo=MD9999")

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubOptions{
			searchResults: []map[string]any{
				{"productId": "101", "md_resumo": map[string]any{"colecao_principal": "Verão"}},
			},
		}
		router := testRouter(stub, &stubRelay{})

		w := doRequest(t, router, "/md/search?ft=colar")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}

		var results []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("len(results) = %d, want 1", len(results))
		}
		if results[0]["productId"] != "101" {
			t.Errorf("productId = %v, want %q", results[0]["productId"], "101")
		}
	})

	t.Run("empty feed is empty success", func(t *testing.T) {
		router := testRouter(&stubOptions{searchResults: []map[string]any{}}, &stubRelay{})

		w := doRequest(t, router, "/md/search?ft=nada")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if body := strings.TrimSpace(w.Body.String()); body != "[]" {
			t.Errorf("body = %q, want empty JSON array", body)
		}
	})

	t.Run("feed unavailable", func(t *testing.T) {
		router := testRouter(&stubOptions{searchErr: domain.ErrFeedUnavailable}, &stubRelay{})

		w := doRequest(t, router, "/md/search?ft=colar")

		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
		}
	})
}

func TestImageProxyEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		relay := &stubRelay{body: "jpeg-bytes", contentType: "image/jpeg"}
		router := testRouter(&stubOptions{}, relay)

		w := doRequest(t, router, "/image-proxy?url=https%3A%2F%2Fcdn%2F907.jpg")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
		if relay.lastURL != "https://cdn/907.jpg" {
			t.Errorf("relay got url %q, want decoded query value", relay.lastURL)
		}
		if got := w.Header().Get("Content-Type"); got != "image/jpeg" {
			t.Errorf("Content-Type = %q, want %q", got, "image/jpeg")
		}
		if w.Body.String() != "jpeg-bytes" {
			t.Errorf("body = %q, want relayed bytes", w.Body.String())
		}
	})

	t.Run("missing url", func(t *testing.T) {
		router := testRouter(&stubOptions{}, &stubRelay{})

		w := doRequest(t, router, "/image-proxy")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if detail := decodeDetail(t, w); detail != "parâmetro 'url' é obrigatório" {
			t.Errorf("detail = %q", detail)
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		router := testRouter(&stubOptions{}, &stubRelay{err: domain.ErrInvalidRequest})

		w := doRequest(t, router, "/image-proxy?url=notaurl")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		router := testRouter(&stubOptions{}, &stubRelay{err: domain.ErrRelayUnavailable})

		w := doRequest(t, router, "/image-proxy?url=https%3A%2F%2Fcdn%2F907.jpg")

		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
		}
		if detail := decodeDetail(t, w); !strings.HasPrefix(detail, "Erro ao baixar imagem da VTEX:") {
			t.Errorf("detail = %q, want relay error prefix", detail)
		}
	})
}
