// Package e2e provides end-to-end tests for the cart service.
// The actual application handler is run in an httptest.Server on top of the
// in-memory stores, so the full request path (router, middleware, handler,
// service, stores) is exercised without external infrastructure.
package e2e

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopfront/cart_service/internal/app"
	"github.com/shopfront/cart_service/internal/store"
	"github.com/shopfront/cart_service/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// cartURL is the base URL for the cart API.
const cartURL = "/api/v1/cart"

// CartServiceE2ESuite runs the HTTP API against in-memory stores.
type CartServiceE2ESuite struct {
	suite.Suite
	server     *httptest.Server
	httpClient *http.Client
}

// SetupTest builds a fresh application for every test so carts never leak
// between tests.
func (s *CartServiceE2ESuite) SetupTest() {
	if s.server != nil {
		s.server.Close()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	products := store.NewInMemoryProductStore(
		store.Product{ID: "p1", Name: "Wireless Mouse", InStock: true, MaxQuantity: 5},
		store.Product{ID: "p2", Name: "Mechanical Keyboard", InStock: false, MaxQuantity: 3},
	)
	deps := app.SetupDependencies(store.NewInMemoryCartStore(), products, messaging.NoopPublisher{}, nil, logger)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.httpClient = s.server.Client()
}

func (s *CartServiceE2ESuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
}

func TestCartServiceE2E(t *testing.T) {
	suite.Run(t, new(CartServiceE2ESuite))
}

// addItem posts an add request and returns the response.
func (s *CartServiceE2ESuite) addItem(body string) *http.Response {
	s.T().Helper()
	resp, err := s.httpClient.Post(s.server.URL+cartURL+"/items", "application/json", strings.NewReader(body))
	require.NoError(s.T(), err)
	return resp
}

// decodeBody decodes the JSON response body into a map and closes the body.
func (s *CartServiceE2ESuite) decodeBody(resp *http.Response) map[string]any {
	s.T().Helper()
	defer func() { _ = resp.Body.Close() }()
	var payload map[string]any
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func (s *CartServiceE2ESuite) TestAddUntilMaxQuantity() {
	// first two adds fill the cart up to the product maximum of 5
	resp := s.addItem(`{"product_id":"p1","quantity":3}`)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), float64(3), s.decodeBody(resp)["total_items"])

	resp = s.addItem(`{"product_id":"p1","quantity":2}`)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), float64(5), s.decodeBody(resp)["total_items"])

	// the next unit exceeds the maximum
	resp = s.addItem(`{"product_id":"p1","quantity":1}`)
	assert.Equal(s.T(), http.StatusConflict, resp.StatusCode)
	assert.Equal(s.T(), "Max quantity reached", s.decodeBody(resp)["error"])

	// and the cart total is unchanged
	getResp, err := s.httpClient.Get(s.server.URL + cartURL)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, getResp.StatusCode)
	assert.Equal(s.T(), float64(5), s.decodeBody(getResp)["total_items"])
}

func (s *CartServiceE2ESuite) TestAddOutOfStockProduct() {
	resp := s.addItem(`{"product_id":"p2","quantity":1}`)
	assert.Equal(s.T(), http.StatusConflict, resp.StatusCode)
	assert.Equal(s.T(), "Out of stock", s.decodeBody(resp)["error"])
}

func (s *CartServiceE2ESuite) TestAddUnknownProduct() {
	resp := s.addItem(`{"product_id":"missing-id","quantity":1}`)
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)
	assert.Equal(s.T(), "Not found", s.decodeBody(resp)["error"])
}

func (s *CartServiceE2ESuite) TestAddRejectsInvalidPayload() {
	resp := s.addItem(`{"product_id":"p1","quantity":0}`)
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
	payload := s.decodeBody(resp)
	assert.Contains(s.T(), payload, "validation_errors")
}

func (s *CartServiceE2ESuite) TestGetEmptyCart() {
	resp, err := s.httpClient.Get(s.server.URL + cartURL)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)

	payload := s.decodeBody(resp)
	assert.Equal(s.T(), float64(0), payload["total_items"])
	assert.Empty(s.T(), payload["lines"])
}

func (s *CartServiceE2ESuite) TestHealthz() {
	resp, err := s.httpClient.Get(s.server.URL + "/healthz")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), "ok", s.decodeBody(resp)["status"])
}
