package services

import (
	"context"
	"log"
	"time"

	"socialnet/db"
)

const defaultReconcileInterval = 60 * time.Second

// CounterReconciler периодически пересчитывает users.friend_count из таблицы
// friendships. Идемпотентная фоновая коррекция: источником истины остаются
// транзакционные инкременты, воркер лишь устраняет дрейф.
type CounterReconciler struct {
	interval time.Duration
	quit     chan struct{}
	done     chan struct{}
}

func NewCounterReconciler(interval time.Duration) *CounterReconciler {
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	return &CounterReconciler{
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the reconciliation loop in a background goroutine.
func (r *CounterReconciler) Start(ctx context.Context) {
	go r.run(ctx)
}

// Stop signals the loop to exit.
func (r *CounterReconciler) Stop() {
	close(r.quit)
}

// Done is closed once the loop has fully stopped.
func (r *CounterReconciler) Done() <-chan struct{} {
	return r.done
}

func (r *CounterReconciler) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.ReconcileFriendCounts(ctx); err != nil {
				log.Printf("reconciler: friend count resync failed: %v", err)
			}
		}
	}
}

// ReconcileFriendCounts rewrites every user's friend_count from the actual
// edge set. Safe to run at any time, any number of times.
func (r *CounterReconciler) ReconcileFriendCounts(ctx context.Context) error {
	return db.GetWriteDB(ctx).Exec(`
		UPDATE users SET friend_count = (
			SELECT COUNT(*) FROM friendships f
			WHERE f.user_id1 = users.id OR f.user_id2 = users.id
		)
	`).Error
}
