package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer отправляет письма через SMTP.
// Отправка синхронная и best-effort: без повторов, ошибка доставки
// возвращается вызывающему.
type Mailer struct {
	host string
	port int
	user string
	pass string
}

// NewMailer создает новый Mailer
func NewMailer(host string, port int, user, pass string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass}
}

// Enabled возвращает true, если SMTP настроен
func (m *Mailer) Enabled() bool {
	return m.host != "" && m.user != ""
}

// SendPromoCode отправляет промокод на почту покупателя
func (m *Mailer) SendPromoCode(to, name, promoCode string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Ваш промокод")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Здравствуйте, %s!\n\nВаш промокод: %s\n\nС уважением,\nКоманда приложения", name, promoCode))

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("ошибка при отправке промокода: %w", err)
	}
	return nil
}
