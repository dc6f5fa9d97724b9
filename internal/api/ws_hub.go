package api

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub рассылает события заказов подключенным админам.
// Запись в отвалившееся соединение удаляет клиента из хаба.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.RWMutex
}

// OrdersHub - хаб живой ленты заказов для админ-панели
var OrdersHub = newHub()

func newHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 256),
	}
}

// Run раздает сообщения из канала всем клиентам.
// Отвалившихся собираем и удаляем после обхода: удаление из мапы
// во время range под общей блокировкой недопустимо.
func (h *Hub) Run() {
	for msg := range h.broadcast {
		var failed []*websocket.Conn

		h.mutex.RLock()
		for client := range h.clients {
			if err := client.WriteMessage(websocket.TextMessage, msg); err != nil {
				failed = append(failed, client)
			}
		}
		h.mutex.RUnlock()

		for _, client := range failed {
			h.RemoveClient(client)
			log.Printf("📱 Клиент ленты заказов отвалился (осталось: %d)", h.GetClientsCount())
		}
	}
}

// AddClient добавляет нового клиента
func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()
}

// RemoveClient удаляет клиента и закрывает соединение
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mutex.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mutex.Unlock()
}

// BroadcastMessage отправляет сообщение всем подключенным клиентам
func (h *Hub) BroadcastMessage(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		// Канал переполнен - пропускаем сообщение, не блокируем
	}
}

// GetClientsCount возвращает количество подключенных клиентов
func (h *Hub) GetClientsCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
