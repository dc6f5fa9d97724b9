package api

import (
	"encoding/json"
	"log"
	"net/http"

	"boodaypizza/server/internal/services"

	"github.com/gin-gonic/gin"
)

// OrderController принимает заказы с витрины и отдает их админ-панели
type OrderController struct {
	service *services.OrderService
}

// NewOrderController создает новый контроллер заказов
func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// CreateOrder принимает заказ со страницы оформления.
// Корзина хранится на клиенте, сюда приходит итоговый заказ одним
// best-effort запросом при подтверждении.
// POST /api/public/orders
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input services.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	order, err := oc.service.CreateOrder(input)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	// Рассылаем заказ подключенным админам (best-effort)
	if payload, err := json.Marshal(order); err == nil {
		OrdersHub.BroadcastMessage(payload)
	} else {
		log.Printf("⚠️ Ошибка сериализации заказа %s для WebSocket: %v", order.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         order.ID,
		"display_id": order.DisplayID,
		"status":     order.Status,
	})
}

// GetOrders возвращает заказы, свежие первыми
// GET /api/admin/orders
func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.service.ListOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении заказов"})
		return
	}
	c.JSON(http.StatusOK, orders)
}
