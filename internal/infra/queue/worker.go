package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notifier entrega o evento para a equipe (e-mail, etc).
type Notifier interface {
	NotifyLeadEvent(ctx context.Context, event LeadEvent) error
}

// Notifiers entrega o evento em todos os canais. Uma falha não impede os
// demais; os erros voltam juntos.
type Notifiers []Notifier

func (ns Notifiers) NotifyLeadEvent(ctx context.Context, event LeadEvent) error {
	var errs []error
	for _, n := range ns {
		if err := n.NotifyLeadEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Consumer é o subconjunto de *amqp.Channel usado pelo worker.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier Notifier
	logger   *zap.Logger
}

func NewWorker(ch Consumer, notifier Notifier, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		logger:   logger,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.logger.Info("worker aguardando na fila", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de entregas fechado")
			}
			if err := w.handleDelivery(ctx, d.Body); err != nil {
				w.logger.Error("❌ falha ao processar evento", zap.Error(err))
				// sem requeue: vai para a DLQ
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, body []byte) error {
	var event LeadEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("JSON inválido: %w", err)
	}

	if !w.shouldNotify(event) {
		w.logger.Debug("evento ignorado", zap.String("type", string(event.Type)))
		return nil
	}

	w.logger.Info("📥 notificando evento",
		zap.String("type", string(event.Type)),
		zap.String("lead_id", event.LeadID),
		zap.String("advisor_id", event.AdvisorID))

	return w.Notifier.NotifyLeadEvent(ctx, event)
}

// Só avisamos a equipe de captações, fechamentos e citas atribuídas.
func (w *Worker) shouldNotify(event LeadEvent) bool {
	switch event.Type {
	case EventLeadCreated, EventAppointmentAssigned:
		return true
	case EventLeadStatusChanged:
		return event.ToStatus == "closed_won" || event.ToStatus == "closed_lost"
	}
	return false
}
