package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateBookingRef returns a reference like BK-1716899112-3FA8C2. The
// uuid-derived suffix keeps two bookings created in the same second from
// colliding.
func GenerateBookingRef() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	suffix := strings.ToUpper(raw[:6])
	return fmt.Sprintf("BK-%d-%s", time.Now().Unix(), suffix)
}
