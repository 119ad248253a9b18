package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleCoupons writes a small coupon file for local development.
// The API loads the file at startup via COUPON_FILE (default
// data/coupons.json).
func main() {
	dataDir := "data"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	coupons := []map[string]any{
		{"code": "WELCOME10", "type": "percent", "value": 10},
		{"code": "SAVE500", "type": "flat", "value": 500, "minSubtotal": 2500},
		{"code": "SUMMER25", "type": "percent", "value": 25, "minSubtotal": 5000},
		{"code": "FREEBIE", "type": "flat", "value": 199},
	}

	filePath := filepath.Join(dataDir, "coupons.json")
	if err := writeCouponFile(filePath, coupons); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d coupons\n", filePath, len(coupons))
}

func writeCouponFile(filePath string, coupons []map[string]any) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(coupons); err != nil {
		return fmt.Errorf("failed to write coupons: %w", err)
	}

	return nil
}
