package queue

import "fmt"

// Stats returns the queue depth and consumer count.
func (q *Service) Stats() (map[string]interface{}, error) {
	queueInfo, err := q.channel.QueueInspect(queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue: %w", err)
	}

	return map[string]interface{}{
		"messages":  queueInfo.Messages,
		"consumers": queueInfo.Consumers,
		"name":      queueInfo.Name,
	}, nil
}
