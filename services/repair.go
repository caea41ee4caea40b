package services

import (
	"context"
	"fmt"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// pendingGrace is how old a pending purchase must be before the repair pass
// considers it stuck. Fresh purchases are normally resolved by the webhook.
const pendingGrace = 15 * time.Minute

const repairSessionScanLimit = 100

// StartRepairScheduler runs a periodic pass over purchases stuck in
// pending: it asks the payment gateway for the correlated checkout session
// and replays the normal reconciliation path. Covers webhook deliveries the
// gateway gave up on and enrollments that were only partially applied.
func (r *Reconciler) StartRepairScheduler(everyMinutes int) *cron.Cron {
	if everyMinutes < 1 {
		everyMinutes = 1
	}

	c := cron.New()

	spec := fmt.Sprintf("@every %dm", everyMinutes)
	_, err := c.AddFunc(spec, func() {
		if err := r.RepairPendingPurchases(context.Background()); err != nil {
			log.Printf("[RECONCILE-REPAIR] pass failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("[RECONCILE-REPAIR] failed to schedule: %v", err)
		return c
	}

	c.Start()
	log.Printf("[RECONCILE-REPAIR] scheduled %s", spec)
	return c
}

// RepairPendingPurchases performs one repair pass
func (r *Reconciler) RepairPendingPurchases(ctx context.Context) error {
	cutoff := time.Now().Add(-pendingGrace)

	var pending []models.Purchase
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.PurchasePending, cutoff).
		Order("created_at desc").
		Find(&pending).Error; err != nil {
		return fmt.Errorf("list pending purchases: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	log.Printf("[RECONCILE-REPAIR] found %d stuck pending purchases", len(pending))

	sessions, err := r.stripe.ListCheckoutSessions(ctx, repairSessionScanLimit)
	if err != nil {
		return fmt.Errorf("list checkout sessions: %w", err)
	}

	byPurchase := make(map[string]*models.Purchase, len(pending))
	for i := range pending {
		byPurchase[pending[i].ID] = &pending[i]
	}

	var completed, failed, skipped int
	for _, session := range sessions {
		purchase, ok := byPurchase[session.Metadata["purchaseId"]]
		if !ok {
			continue
		}

		switch {
		case session.PaymentStatus == "paid":
			if err := r.CompletePurchase(ctx, purchase.ID); err != nil {
				log.Printf("[RECONCILE-REPAIR] purchase %s: %v", purchase.ID, err)
				continue
			}
			completed++
		case session.Status == "expired":
			if err := r.FailPurchase(ctx, purchase.ID); err != nil {
				log.Printf("[RECONCILE-REPAIR] purchase %s: %v", purchase.ID, err)
				continue
			}
			failed++
		default:
			// Session still open; the buyer may yet pay.
			skipped++
		}
	}

	log.Printf("[RECONCILE-REPAIR] completed=%d failed=%d still-open=%d", completed, failed, skipped)
	return nil
}
