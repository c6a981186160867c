// internal/handlers/api_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/niceai/studio-backend/internal/config"
	"github.com/niceai/studio-backend/internal/gateway"
	"github.com/niceai/studio-backend/internal/idgen"
	"github.com/niceai/studio-backend/internal/router"
	"github.com/niceai/studio-backend/internal/store"
)

type stubGateway struct{}

func (stubGateway) Generate(ctx context.Context, req *gateway.GenerateRequest) (*gateway.GenerateResult, error) {
	return &gateway.GenerateResult{
		Design: []byte("design"),
		Mockup: []byte("mockup"),
	}, nil
}

func (stubGateway) RefreshMockup(ctx context.Context, req *gateway.RefreshRequest) ([]byte, error) {
	return []byte("refreshed"), nil
}

type APITestSuite struct {
	suite.Suite
	router *gin.Engine
	token  string
}

func (suite *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Environment: "test"}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8080"
	cfg.Session.SecretKey = "test-secret"
	cfg.Session.TokenTTL = 1
	cfg.AWS.LocalUploadsDir = suite.T().TempDir()
	cfg.I18n.DefaultLocale = "zh_CN"

	st, err := store.NewFileStore(suite.T().TempDir(), idgen.NewRandom())
	suite.Require().NoError(err)

	r, err := router.Initialize(st, stubGateway{}, idgen.NewRandom(), cfg)
	suite.Require().NoError(err)
	suite.router = r

	suite.token = suite.openSession()
}

func (suite *APITestSuite) openSession() string {
	w := suite.do("POST", "/v1/session", nil, "")
	suite.Require().Equal(http.StatusCreated, w.Code)

	body := suite.decode(w)
	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

func (suite *APITestSuite) do(method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (suite *APITestSuite) data(w *httptest.ResponseRecorder) map[string]interface{} {
	return suite.decode(w)["data"].(map[string]interface{})
}

func (suite *APITestSuite) register() {
	w := suite.do("POST", "/v1/profile/register", map[string]interface{}{}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
}

func (suite *APITestSuite) generate() map[string]interface{} {
	w := suite.do("POST", "/v1/generate", map[string]interface{}{
		"prompt":   "星空下的鲸鱼",
		"category": "TSHIRT",
		"style_id": "minimal",
	}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code)
	return suite.data(w)["work"].(map[string]interface{})
}

func (suite *APITestSuite) TestSessionBootstrap() {
	w := suite.do("POST", "/v1/session", nil, "")
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	data := suite.data(w)
	profile := data["profile"].(map[string]interface{})
	assert.Contains(suite.T(), profile["id"], "GUEST-")
	assert.Equal(suite.T(), float64(0), profile["points"])
	assert.NotEmpty(suite.T(), data["token"])
}

func (suite *APITestSuite) TestProfileRequiresToken() {
	w := suite.do("GET", "/v1/profile", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do("GET", "/v1/profile", nil, "not-a-token")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestCatalogIsPublic() {
	w := suite.do("GET", "/v1/catalog", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	data := suite.data(w)
	assert.Len(suite.T(), data["categories"], 4)
	assert.Len(suite.T(), data["styles"], 6)

	economy := data["economy"].(map[string]interface{})
	assert.Equal(suite.T(), float64(10), economy["generation_cost"])
	assert.Equal(suite.T(), float64(10), economy["gold_to_cny_rate"])
	assert.Equal(suite.T(), float64(10), economy["points_per_cny"])
}

func (suite *APITestSuite) TestPriceQuote() {
	w := suite.do("POST", "/v1/catalog/price", map[string]interface{}{
		"category": "MOUSEPAD",
		"specs":    map[string]string{"fabric": "speed", "size": "XL"},
	}, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	data := suite.data(w)
	assert.Equal(suite.T(), 104.0, data["price"])
	assert.Equal(suite.T(), float64(4), data["lead_time"])
}

func (suite *APITestSuite) TestGuestCannotGenerate() {
	w := suite.do("POST", "/v1/generate", map[string]interface{}{
		"prompt":   "测试",
		"category": "TSHIRT",
	}, suite.token)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestRegisterGrantsPoints() {
	w := suite.do("POST", "/v1/profile/register", map[string]interface{}{}, suite.token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	profile := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), float64(1000), profile["points"])
	assert.Contains(suite.T(), profile["id"], "USER-")

	// Registering again is rejected.
	w = suite.do("POST", "/v1/profile/register", map[string]interface{}{}, suite.token)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *APITestSuite) TestGenerateLandsOnConfigure() {
	suite.register()

	w := suite.do("POST", "/v1/generate", map[string]interface{}{
		"prompt":   "星空下的鲸鱼",
		"category": "TSHIRT",
		"style_id": "minimal",
	}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code)

	data := suite.data(w)
	work := data["work"].(map[string]interface{})
	nav := data["navigation"].(map[string]interface{})
	assert.Equal(suite.T(), "configure", nav["tab"])
	assert.Equal(suite.T(), work["id"], nav["work_id"])

	// The generation was charged.
	w = suite.do("GET", "/v1/profile", nil, suite.token)
	profile := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), float64(990), profile["points"])
}

func (suite *APITestSuite) TestCartOrderFlow() {
	suite.register()
	work := suite.generate()

	w := suite.do("POST", "/v1/cart", map[string]interface{}{
		"work_id": work["id"],
		"specs":   map[string]string{"color": "black", "size": "XL"},
	}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code)
	item := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), 144.0, item["price"])

	w = suite.do("POST", fmt.Sprintf("/v1/cart/%s/order", item["id"]), nil, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code)
	order := suite.decode(w)["data"].(map[string]interface{})
	assert.Contains(suite.T(), order["id"], "C2M-")
	assert.Equal(suite.T(), "PENDING", order["status"])
	assert.Equal(suite.T(), 144.0, order["price"])

	// The ordered item left the cart.
	w = suite.do("GET", "/v1/cart", nil, suite.token)
	data := suite.data(w)
	assert.Empty(suite.T(), data["items"])

	// Gold royalty landed on the profile.
	w = suite.do("GET", "/v1/profile", nil, suite.token)
	profile := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), float64(50), profile["gold"])
}

func (suite *APITestSuite) TestDirectOrderLeavesCartAlone() {
	suite.register()
	work := suite.generate()

	w := suite.do("POST", "/v1/cart", map[string]interface{}{
		"work_id": work["id"],
		"specs":   map[string]string{},
	}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do("POST", "/v1/orders", map[string]interface{}{
		"work_id": work["id"],
		"specs":   map[string]string{},
	}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do("GET", "/v1/cart", nil, suite.token)
	data := suite.data(w)
	assert.Len(suite.T(), data["items"], 1)
}

func (suite *APITestSuite) TestNavigateConfigureWithoutContext() {
	w := suite.do("POST", "/v1/session/navigate", map[string]interface{}{
		"tab": "configure",
	}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	nav := suite.data(w)["navigation"].(map[string]interface{})
	assert.Equal(suite.T(), "create", nav["tab"])
}

func (suite *APITestSuite) TestRechargeUnconfigured() {
	w := suite.do("POST", "/v1/recharge", map[string]interface{}{
		"points": 500,
	}, suite.token)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func (suite *APITestSuite) TestDeleteWorkKeepsOrderHistory() {
	suite.register()
	work := suite.generate()

	w := suite.do("POST", "/v1/orders", map[string]interface{}{
		"work_id": work["id"],
		"specs":   map[string]string{},
	}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do("DELETE", fmt.Sprintf("/v1/works/%s", work["id"]), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do("GET", "/v1/orders", nil, suite.token)
	data := suite.data(w)
	assert.Len(suite.T(), data["orders"], 1)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
