package topup

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const anonymousFragment = "GUEST"

// OrderNumbers issues display order ids of the form ARC-YYYYMMDD-NNNN-XXXXXX.
// They are never used for idempotency; the gateway charge id is.
type OrderNumbers struct {
	seq atomic.Uint32
	now func() time.Time
}

func NewOrderNumbers(now func() time.Time) *OrderNumbers {
	if now == nil {
		now = time.Now
	}

	o := &OrderNumbers{now: now}
	o.seq.Store(uint32(now().UnixMilli() % 10000))

	return o
}

func (o *OrderNumbers) Next(userID string) string {
	n := o.seq.Add(1) % 10000
	return fmt.Sprintf("ARC-%s-%04d-%s", o.now().Format("20060102"), n, userFragment(userID))
}

func userFragment(userID string) string {
	fragment := strings.ToUpper(strings.ReplaceAll(userID, "-", ""))
	if fragment == "" {
		return anonymousFragment
	}
	if len(fragment) > 6 {
		fragment = fragment[:6]
	}

	return fragment
}
