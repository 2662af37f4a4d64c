// Package testutil provides test helper functions.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// GenerateKeys generates count object keys with the given prefix.
// Keys are zero-padded so listing order matches lexical order.
func GenerateKeys(prefix string, count int) []string {
	keys := make([]string, count)
	for i := range keys {
		keys[i] = fmt.Sprintf("%sobject-%06d.txt", prefix, i)
	}
	return keys
}

// GenerateTestBucketName generates a valid test bucket name.
// Bucket names must be DNS-compliant and globally unique.
func GenerateTestBucketName(prefix string) string {
	timestamp := time.Now().Unix()
	random := rand.Int31n(10000)
	name := fmt.Sprintf("%s-%d-%d", prefix, timestamp, random)
	// Ensure DNS compliance
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}
