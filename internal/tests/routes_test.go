// internal/tests/routes_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/cincoin-asia/cincoin-backend/internal/handlers"
	"github.com/cincoin-asia/cincoin-backend/internal/middleware"
)

// RoutesTestSuite covers the routing surface that does not need a database:
// public catalogue endpoints and the auth guard on protected ones.
type RoutesTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *RoutesTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	productHandler := handlers.NewProductHandler(nil, nil)

	products := suite.router.Group("/v1/products")
	{
		products.GET("/categories", productHandler.GetCategories)

		protected := products.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/:id/purchase", productHandler.Purchase)
		}
	}

	orders := suite.router.Group("/v1/orders")
	orders.Use(middleware.AuthRequired())
	{
		orders.GET("", productHandler.GetOrders)
	}

	admin := suite.router.Group("/v1/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.POST("/orders/:id/refund", productHandler.RefundOrder)
	}
}

func (suite *RoutesTestSuite) TestCategoriesArePublic() {
	req, _ := http.NewRequest("GET", "/v1/products/categories", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response["success"].(bool))

	data := response["data"].(map[string]interface{})
	categories := data["categories"].([]interface{})
	assert.Len(suite.T(), categories, 6)
	assert.Contains(suite.T(), categories, "Alimentos")
	assert.Contains(suite.T(), categories, "Outros")
}

func (suite *RoutesTestSuite) TestPurchaseRequiresAuth() {
	body, _ := json.Marshal(map[string]interface{}{"percent": 30})
	req, _ := http.NewRequest("POST", "/v1/products/123/purchase", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *RoutesTestSuite) TestOrdersRejectMalformedToken() {
	req, _ := http.NewRequest("GET", "/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *RoutesTestSuite) TestOrderRefundRequiresAuth() {
	req, _ := http.NewRequest("POST", "/v1/admin/orders/123/refund", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func TestRoutesSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}
