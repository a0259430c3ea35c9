package syncproto

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

// Checksum returns the FNV-1a 32-bit hash of data as eight hex digits.
// The same algorithm runs on the clients, so both sides can verify a
// downloaded database without re-downloading it.
func Checksum(data string) string {
	h := fnv.New32a()
	h.Write([]byte(data))
	return fmt.Sprintf("%08x", h.Sum32())
}

// CorpusChecksum fingerprints a whole record set, independent of order:
// sorted "id:code" pairs joined with "|".
func CorpusChecksum(records []domain.FaultCodeRecord) string {
	pairs := make([]string, 0, len(records))
	for _, r := range records {
		pairs = append(pairs, r.ID+":"+r.Code)
	}
	sort.Strings(pairs)
	return Checksum(strings.Join(pairs, "|"))
}

// RecordChecksum fingerprints a single record's content, used to detect
// updated records between versions.
func RecordChecksum(r domain.FaultCodeRecord) string {
	r.UpdatedAt = time.Time{}
	b, err := json.Marshal(r)
	if err != nil {
		// Marshaling a plain struct cannot fail; keep the signature simple.
		return Checksum(r.ID + ":" + r.Code)
	}
	return Checksum(string(b))
}

// ChecksumMap maps record ID to content checksum for delta calculation.
func ChecksumMap(records []domain.FaultCodeRecord) map[string]string {
	m := make(map[string]string, len(records))
	for _, r := range records {
		m[r.ID] = RecordChecksum(r)
	}
	return m
}
