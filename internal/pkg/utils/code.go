package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DriverCode builds a short human-facing code from a driver's name and hire
// date, e.g. "Maria da Silva", 2024-03 -> "MDS-2403". Pure function; the
// caller handles uniqueness collisions.
func DriverCode(name string, hiredAt time.Time) string {
	initials := make([]rune, 0, 3)
	for _, part := range strings.Fields(name) {
		r := []rune(part)[0]
		if !unicode.IsLetter(r) {
			continue
		}
		initials = append(initials, unicode.ToUpper(r))
		if len(initials) == 3 {
			break
		}
	}
	if len(initials) == 0 {
		initials = []rune{'X'}
	}
	return fmt.Sprintf("%s-%s", string(initials), hiredAt.Format("0601"))
}

// SettlementCode builds the settlement's reference code from the driver code
// and the period, e.g. "ACR-MDS-2403-20250101".
func SettlementCode(driverCode string, periodStart time.Time) string {
	return fmt.Sprintf("ACR-%s-%s", driverCode, periodStart.Format("20060102"))
}
