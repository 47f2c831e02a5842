package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateETag derives a weak validator from the most recently touched
// document plus any extra discriminators (page, total, ...).
func GenerateETag(id primitive.ObjectID, updatedAt time.Time, extra ...string) string {
	parts := append([]string{id.Hex(), strconv.FormatInt(updatedAt.UnixNano(), 10)}, extra...)
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}
