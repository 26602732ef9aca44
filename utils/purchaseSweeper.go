package utils

import (
	"log"
	"time"

	"lms/services"

	"github.com/robfig/cron/v3"
)

// InitializePurchaseSweeper schedules the stale-purchase cleanup. Abandoned
// checkouts never deliver a settlement, so pending purchases past the TTL are
// failed here; that keeps the ledger from accumulating purchases that will
// never settle.
func InitializePurchaseSweeper(purchases *services.PurchaseService, ttl time.Duration) *cron.Cron {
	log.Println("[PURCHASE-SWEEPER] Initializing stale purchase sweeper...")

	c := cron.New()

	// Run hourly; the TTL cutoff does the actual age filtering.
	c.AddFunc("0 * * * *", func() {
		swept, err := purchases.SweepStalePending(ttl)
		if err != nil {
			log.Printf("[PURCHASE-SWEEPER] Error sweeping stale purchases: %v", err)
			return
		}
		if swept > 0 {
			log.Printf("[PURCHASE-SWEEPER] Failed %d stale pending purchases", swept)
		}
	})

	c.Start()
	log.Printf("[PURCHASE-SWEEPER] Sweeper started - pending purchases older than %s are failed", ttl)
	return c
}
