package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Полный путь админа: филиал -> категория -> подкатегория -> продукт,
// затем витрина читает каталог без авторизации.
func TestCatalogFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t)

	// Филиал
	w := ts.doJSON(t, http.MethodPost, "/api/admin/branch", token, gin.H{
		"name": "Центр",
		"city": "Бишкек",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var branch struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &branch))
	require.NotEmpty(t, branch.ID)

	// Категория "Пицца" без явной модели - выводится tiered
	w = ts.doJSON(t, http.MethodPost, "/api/admin/category", token, gin.H{
		"name":  "Пицца",
		"emoji": "🍕",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var category struct {
		ID           string `json:"id"`
		PricingModel string `json:"pricing_model"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))
	assert.Equal(t, "tiered", category.PricingModel)

	// Подкатегория
	w = ts.doJSON(t, http.MethodPost, "/api/admin/subcategory", token, gin.H{
		"name":       "Классические",
		"categoryId": category.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var subcategory struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subcategory))

	// Подкатегория видна внутри категории ровно один раз
	w = ts.doJSON(t, http.MethodGet, "/api/admin/categories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var categories []struct {
		ID            string `json:"id"`
		Subcategories []struct {
			ID string `json:"id"`
		} `json:"subcategories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	require.Len(t, categories, 1)
	require.Len(t, categories[0].Subcategories, 1)
	assert.Equal(t, subcategory.ID, categories[0].Subcategories[0].ID)

	// Продукт в tiered-категории с тремя ценами
	w = ts.doProductForm(t, http.MethodPost, "/api/admin/product", token, map[string]string{
		"name":          "Маргарита",
		"branchId":      branch.ID,
		"subcategoryId": subcategory.ID,
		"prices":        `{"small":200,"medium":300,"large":400}`,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Витрина отдает продукт с тремя ценами и без одиночной
	w = ts.doJSON(t, http.MethodGet, "/api/public/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []struct {
		Name   string   `json:"name"`
		Price  *float64 `json:"price"`
		Prices struct {
			Small  *float64 `json:"small"`
			Medium *float64 `json:"medium"`
			Large  *float64 `json:"large"`
		} `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Маргарита", products[0].Name)
	assert.Nil(t, products[0].Price)
	require.NotNil(t, products[0].Prices.Medium)
	assert.Equal(t, 300.0, *products[0].Prices.Medium)

	// Филиал с продуктом удалить нельзя
	w = ts.doJSON(t, http.MethodDelete, "/api/admin/branch/"+branch.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// И он по-прежнему виден на витрине
	w = ts.doJSON(t, http.MethodGet, "/api/public/branches", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var branches []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &branches))
	require.Len(t, branches, 1)
	assert.Equal(t, branch.ID, branches[0].ID)
}

func TestProductInFlatCategory(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t)

	w := ts.doJSON(t, http.MethodPost, "/api/admin/branch", token, gin.H{"name": "Центр", "city": "Бишкек"})
	require.Equal(t, http.StatusOK, w.Code)
	var branch struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &branch))

	w = ts.doJSON(t, http.MethodPost, "/api/admin/category", token, gin.H{"name": "Напитки", "emoji": "🥤"})
	require.Equal(t, http.StatusOK, w.Code)
	var category struct {
		ID           string `json:"id"`
		PricingModel string `json:"pricing_model"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))
	assert.Equal(t, "flat", category.PricingModel)

	w = ts.doJSON(t, http.MethodPost, "/api/admin/subcategory", token, gin.H{
		"name":       "Лимонады",
		"categoryId": category.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var subcategory struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subcategory))

	// Три цены для flat-категории - ошибка валидации (нет одиночной цены)
	w = ts.doProductForm(t, http.MethodPost, "/api/admin/product", token, map[string]string{
		"name":          "Кола",
		"branchId":      branch.ID,
		"subcategoryId": subcategory.ID,
		"prices":        `{"small":80,"medium":100,"large":120}`,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// С одиночной ценой - успех
	w = ts.doProductForm(t, http.MethodPost, "/api/admin/product", token, map[string]string{
		"name":          "Кола",
		"branchId":      branch.ID,
		"subcategoryId": subcategory.ID,
		"price":         "100",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var product struct {
		Price  *float64 `json:"price"`
		Prices struct {
			Small *float64 `json:"small"`
		} `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	require.NotNil(t, product.Price)
	assert.Equal(t, 100.0, *product.Price)
	assert.Nil(t, product.Prices.Small)
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/branches"},
		{http.MethodGet, "/api/admin/categories"},
		{http.MethodGet, "/api/admin/subcategories"},
		{http.MethodGet, "/api/admin/products"},
		{http.MethodGet, "/api/admin/orders"},
		{http.MethodPost, "/api/admin/branch"},
		{http.MethodPost, "/api/admin/register"},
	}

	for _, p := range paths {
		w := ts.doJSON(t, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
	}
}

func TestAdminLogin_WrongCredentials(t *testing.T) {
	ts := newTestServer(t)

	w := ts.doJSON(t, http.MethodPost, "/api/admin/login", "", gin.H{
		"username": "admin_nobody",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.doJSON(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "aibek@example.com",
		"phone":    "+996700123456",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Регистрация успешна")

	// Повторная регистрация - 400
	w = ts.doJSON(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "aibek@example.com",
		"phone":    "+996700123456",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.doJSON(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "aibek@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Вход успешен")

	w = ts.doJSON(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "aibek@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderAndListAsAdmin(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t)

	w := ts.doJSON(t, http.MethodPost, "/api/public/orders", "", gin.H{
		"name":    "Айбек",
		"phone":   "+996700123456",
		"address": "ул. Киевская 95",
		"items": []gin.H{
			{"product_id": "p1", "name": "Маргарита", "size": "medium", "quantity": 1, "price": 300},
		},
		"total": 300,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID        string `json:"id"`
		DisplayID string `json:"display_id"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Len(t, created.DisplayID, 4)
	assert.Equal(t, "pending", created.Status)

	// Пустой заказ не принимается
	w = ts.doJSON(t, http.MethodPost, "/api/public/orders", "", gin.H{
		"name":  "Айбек",
		"phone": "+996700123456",
		"items": []gin.H{},
		"total": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Админ видит заказ с распарсенными позициями
	w = ts.doJSON(t, http.MethodGet, "/api/admin/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []struct {
		ID    string `json:"id"`
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, orders[0].ID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Маргарита", orders[0].Items[0].Name)
}
