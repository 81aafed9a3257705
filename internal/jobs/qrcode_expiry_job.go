package jobs

import (
	"log"
	"time"

	"github.com/valecashback/backend/internal/queue"
	"github.com/valecashback/backend/internal/services/qrcode"
)

// RegisterQRCodeExpiryJob schedules the recurring sweep that expires stale
// payment QR codes
func RegisterQRCodeExpiryJob(w *queue.Worker, qrService *qrcode.Service) {
	w.ScheduleRecurring("expire_qr_codes", 1*time.Minute, func() {
		expired, err := qrService.ExpireStale()
		if err != nil {
			log.Printf("Error expiring QR codes: %v", err)
			return
		}
		if expired > 0 {
			log.Printf("Expired %d stale QR codes", expired)
		}
	})
}
