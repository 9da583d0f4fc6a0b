package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"socialnet/config"
	"socialnet/models"

	"github.com/go-redis/redis/v8"
)

const (
	FANOUT_QUEUE         = "notification_fanout_queue"
	QUEUE_WORKER_COUNT   = 5
	CELEBRITY_THRESHOLD  = 1000 // followers past which a task is split
	CELEBRITY_BATCH_SIZE = 100
)

// FanoutTask - единица работы фан-аута: одно событие, адресованное
// уже разрешенной аудитории.
type FanoutTask struct {
	ActorID     int64                   `json:"actor_id"`
	ReceiverIDs []int64                 `json:"receiver_ids"`
	Type        models.NotificationType `json:"type"`
	Text        string                  `json:"text"`
	PostID      *int64                  `json:"post_id,omitempty"`
}

type QueueService struct {
	fanout *FanoutService
}

func NewQueueService(fanout *FanoutService) *QueueService {
	return &QueueService{fanout: fanout}
}

// StartWorkers запускает воркеры для обработки очереди
func (qs *QueueService) StartWorkers(ctx context.Context) {
	workers := QUEUE_WORKER_COUNT
	if config.AppConfig != nil && config.AppConfig.Fanout.Workers > 0 {
		workers = config.AppConfig.Fanout.Workers
	}
	for i := 0; i < workers; i++ {
		go qs.worker(ctx, i)
	}
}

func (qs *QueueService) worker(ctx context.Context, workerID int) {
	log.Printf("Fanout worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Fanout worker %d stopping", workerID)
			return
		default:
			result, err := RedisClient.BLPop(ctx, 5*time.Second, FANOUT_QUEUE).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				log.Printf("Worker %d error getting task: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}
			if len(result) < 2 {
				continue
			}

			var task FanoutTask
			if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
				log.Printf("Worker %d error unmarshaling task: %v", workerID, err)
				continue
			}

			if err := qs.fanout.Deliver(ctx, task); err != nil {
				// Best-effort: логируем и не ретраим
				log.Printf("Worker %d fanout delivery failed for actor %d: %v", workerID, task.ActorID, err)
			}
		}
	}
}

// EnqueueFanout добавляет задачу фан-аута в очередь. Аудитория больше
// CELEBRITY_THRESHOLD режется на батчи, чтобы один воркер не держал
// задачу слишком долго.
func (qs *QueueService) EnqueueFanout(ctx context.Context, task FanoutTask) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not available")
	}

	batches := [][]int64{task.ReceiverIDs}
	if len(task.ReceiverIDs) > CELEBRITY_THRESHOLD {
		batches = batches[:0]
		for start := 0; start < len(task.ReceiverIDs); start += CELEBRITY_BATCH_SIZE {
			end := start + CELEBRITY_BATCH_SIZE
			if end > len(task.ReceiverIDs) {
				end = len(task.ReceiverIDs)
			}
			batches = append(batches, task.ReceiverIDs[start:end])
		}
	}

	for _, batch := range batches {
		chunk := task
		chunk.ReceiverIDs = batch
		taskData, err := json.Marshal(chunk)
		if err != nil {
			return fmt.Errorf("failed to marshal task: %w", err)
		}
		if err := RedisClient.RPush(ctx, FANOUT_QUEUE, taskData).Err(); err != nil {
			return fmt.Errorf("failed to enqueue task: %w", err)
		}
	}
	return nil
}

// GetStats возвращает статистику очереди
func (qs *QueueService) GetStats() map[string]interface{} {
	stats := make(map[string]interface{})
	if RedisClient != nil {
		queueLength := RedisClient.LLen(context.Background(), FANOUT_QUEUE).Val()
		stats["queue_length"] = queueLength
		stats["worker_count"] = QUEUE_WORKER_COUNT
		stats["queue_name"] = FANOUT_QUEUE
	} else {
		stats["error"] = "Redis not available"
	}
	return stats
}

// QueueServiceInstance глобальный экземпляр сервиса очередей
var QueueServiceInstance *QueueService
