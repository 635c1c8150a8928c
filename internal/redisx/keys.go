package redisx

import "time"

const (
	// Password-reset OTP: otp:reset:{email} -> 6-digit code
	KeyResetOTP = "otp:reset:%s"

	// Cache of an order's status: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup for event consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLResetOTP    = 15 * time.Minute
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
