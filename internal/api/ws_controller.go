package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSController подключает админ-панель к живой ленте заказов
type WSController struct {
	jwtSecret string
}

// NewWSController создает новый WebSocket контроллер
func NewWSController(jwtSecret string) *WSController {
	return &WSController{jwtSecret: jwtSecret}
}

// OrdersFeed апгрейдит соединение и держит его до отключения клиента.
// Браузерный WebSocket не умеет ставить заголовки, поэтому токен
// передается query-параметром.
// GET /api/admin/ws/orders?token=...
func (wc *WSController) OrdersFeed(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Токен отсутствует"})
		return
	}
	if _, err := ValidateToken(token, wc.jwtSecret); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный токен"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ Ошибка апгрейда WebSocket: %v", err)
		return
	}

	OrdersHub.AddClient(conn)
	log.Printf("📱 Админ подключился к ленте заказов (всего: %d)", OrdersHub.GetClientsCount())

	// Читаем, пока клиент не отключится; входящие сообщения не ожидаются
	go func() {
		defer OrdersHub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
