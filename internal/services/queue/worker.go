package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/models"
)

// StartWorker consumes report jobs and persists them until the context is
// cancelled.
func (q *Service) StartWorker(ctx context.Context, workerID int) error {
	msgs, err := q.channel.Consume(
		queueName,
		fmt.Sprintf("report-worker-%d", workerID), // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("report worker started", zap.Int("worker_id", workerID))

	go func() {
		for {
			select {
			case <-ctx.Done():
				q.logger.Info("report worker stopping", zap.Int("worker_id", workerID))
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn("message channel closed", zap.Int("worker_id", workerID))
					return
				}
				q.processMessage(ctx, msg, workerID)
			}
		}
	}()

	return nil
}

func (q *Service) processMessage(ctx context.Context, msg amqp.Delivery, workerID int) {
	var job models.ReportJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		q.logger.Error("failed to unmarshal report job",
			zap.Error(err),
			zap.Int("worker_id", workerID))
		msg.Nack(false, false) // don't requeue malformed messages
		return
	}

	if err := q.store.Save(ctx, &job.Report); err != nil {
		job.Status = models.StatusFailed
		job.Error = err.Error()
		q.logger.Error("report persistence failed",
			zap.String("job_id", job.ID),
			zap.Error(err))
		// Requeue once; a second failure is dropped to avoid poison loops.
		msg.Nack(false, !msg.Redelivered)
		return
	}

	job.Status = models.StatusCompleted
	q.logger.Info("report persisted",
		zap.String("job_id", job.ID),
		zap.String("disease", job.Report.DiseaseName))

	if err := msg.Ack(false); err != nil {
		q.logger.Error("failed to ack message",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}
