package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/models"
)

// PublishReport enqueues a report for asynchronous persistence.
func (q *Service) PublishReport(ctx context.Context, job *models.ReportJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal report job: %w", err)
	}

	err = q.channel.Publish(
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         jobBytes,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish report job: %w", err)
	}

	q.logger.Info("report job published", zap.String("job_id", job.ID))
	return nil
}
