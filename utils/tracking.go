package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var trackingIDRegex = regexp.MustCompile(`^PRCL-\d{8}-[A-Z0-9]{6}$`)

// GenerateTrackingID returns PRCL-YYYYMMDD-XXXXXX for the UTC date of now.
// Uniqueness is probabilistic; the parcels collection carries a unique index.
func GenerateTrackingID(now time.Time) (string, error) {
	var suffix strings.Builder
	max := big.NewInt(int64(len(trackingAlphabet)))
	for i := 0; i < TrackingSuffixLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate tracking suffix: %v", err)
		}
		suffix.WriteByte(trackingAlphabet[n.Int64()])
	}
	return fmt.Sprintf("%s-%s-%s", TrackingPrefix, now.UTC().Format("20060102"), suffix.String()), nil
}

// IsValidTrackingID checks the PRCL-YYYYMMDD-XXXXXX shape
func IsValidTrackingID(id string) bool {
	return trackingIDRegex.MatchString(id)
}
