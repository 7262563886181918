package utils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// Human-readable entity codes: prefix + UTC timestamp + 4 random digits.
// The random suffix keeps same-second collisions unlikely; actual uniqueness
// is enforced by the unique index on the code column.
func generateCode(prefix string) string {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to the
		// clock so code generation cannot block a booking.
		return fmt.Sprintf("%s%s%04d", prefix, time.Now().UTC().Format("20060102150405"), time.Now().UnixNano()%9000+1000)
	}
	suffix := 1000 + int(binary.BigEndian.Uint16(buf[:]))%9000
	return fmt.Sprintf("%s%s%04d", prefix, time.Now().UTC().Format("20060102150405"), suffix)
}

// GenerateBookingCode returns a new booking code, e.g. BK202601021504051234.
func GenerateBookingCode() string {
	return generateCode("BK")
}

// GenerateRentalCode returns a new rental code, e.g. RN202601021504051234.
func GenerateRentalCode() string {
	return generateCode("RN")
}

// GeneratePaymentCode returns a new payment code, e.g. PAY202601021504051234.
func GeneratePaymentCode() string {
	return generateCode("PAY")
}
