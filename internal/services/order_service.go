package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"boodaypizza/server/internal/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

const ordersTopic = "pizza-orders"

var digitsRe = regexp.MustCompile(`\d+`)

// OrderInput - заказ со страницы оформления
type OrderInput struct {
	CustomerName string             `json:"name"`
	Phone        string             `json:"phone"`
	Address      string             `json:"address"`
	BranchID     *string            `json:"branch_id"`
	Items        []models.OrderItem `json:"items"`
	Total        float64            `json:"total"`
}

// OrderService сохраняет заказы и публикует события о них.
// Kafka и WebSocket - best-effort: их недоступность никогда
// не ломает оформление заказа.
type OrderService struct {
	db          *gorm.DB
	kafkaWriter *kafka.Writer
}

// NewOrderService создает сервис заказов. При наличии брокеров
// поднимает асинхронный Kafka producer.
func NewOrderService(db *gorm.DB, kafkaBrokers string) *OrderService {
	var writer *kafka.Writer
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		writer = &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    ordersTopic,
			Balancer: &kafka.LeastBytes{},
			Async:    true, // Не блокируем оформление заказа
		}
		log.Printf("✅ Kafka producer подключен к %s", kafkaBrokers)
	}
	return &OrderService{db: db, kafkaWriter: writer}
}

// Close закрывает Kafka writer
func (s *OrderService) Close() error {
	if s.kafkaWriter != nil {
		return s.kafkaWriter.Close()
	}
	return nil
}

// CreateOrder сохраняет заказ и асинхронно публикует событие в Kafka.
// Возвращенный заказ содержит распарсенные позиции.
func (s *OrderService) CreateOrder(input OrderInput) (*models.Order, error) {
	if input.CustomerName == "" || input.Phone == "" {
		return nil, fmt.Errorf("имя и телефон обязательны: %w", ErrValidation)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("заказ пуст: %w", ErrValidation)
	}
	if input.Total <= 0 {
		return nil, fmt.Errorf("сумма заказа должна быть больше нуля: %w", ErrValidation)
	}

	itemsJSON, err := json.Marshal(input.Items)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации позиций: %w", err)
	}

	fullID := uuid.New().String()
	order := models.Order{
		ID:           fullID,
		DisplayID:    displayIDFrom(fullID),
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		Address:      input.Address,
		BranchID:     input.BranchID,
		Items:        string(itemsJSON),
		Total:        input.Total,
		Status:       models.OrderStatusPending,
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("ошибка сохранения заказа: %w", err)
	}
	order.ParsedItems = input.Items

	s.publishOrder(&order)
	return &order, nil
}

// ListOrders возвращает заказы, свежие первыми
func (s *OrderService) ListOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения заказов: %w", err)
	}
	for i := range orders {
		if err := json.Unmarshal([]byte(orders[i].Items), &orders[i].ParsedItems); err != nil {
			log.Printf("⚠️ Ошибка парсинга позиций заказа %s: %v", orders[i].ID, err)
			orders[i].ParsedItems = []models.OrderItem{}
		}
	}
	return orders, nil
}

// publishOrder асинхронно отправляет заказ в Kafka
func (s *OrderService) publishOrder(order *models.Order) {
	if s.kafkaWriter == nil {
		return
	}

	payload, err := json.Marshal(order)
	if err != nil {
		log.Printf("⚠️ Ошибка сериализации заказа %s для Kafka: %v", order.ID, err)
		return
	}

	go func() {
		// Background context с таймаутом: контекст запроса к этому
		// моменту может быть уже отменен
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.kafkaWriter.WriteMessages(ctx, kafka.Message{
			Key:   []byte(order.ID),
			Value: payload,
		}); err != nil {
			// Топик создастся автоматически, Unknown Topic не считаем ошибкой
			errStr := err.Error()
			if !strings.Contains(errStr, "Unknown Topic Or Partition") &&
				!strings.Contains(errStr, "context canceled") {
				log.Printf("⚠️ Kafka error при отправке заказа %s: %v", order.ID, err)
			}
		}
	}()
}

// displayIDFrom строит короткий номер заказа из цифр UUID
func displayIDFrom(fullID string) string {
	digits := strings.Join(digitsRe.FindAllString(fullID, -1), "")
	if len(digits) < 4 {
		return "0000"
	}
	return digits[len(digits)-4:]
}
