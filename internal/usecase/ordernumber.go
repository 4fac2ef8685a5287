package usecase

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// Seams for deterministic order-number tests.
var (
	timeNow  = time.Now
	randIntn = defaultRandIntn
)

func defaultRandIntn(n int) int {
	return rand.Intn(n)
}

// NewOrderNumber generates an identifier of the form WF-<last 6 digits of the
// current unix millisecond time>-<random 0..999>. Collisions are theoretically
// possible; the orders table's unique index turns one into ErrAlreadyExists.
func NewOrderNumber() string {
	ms := strconv.FormatInt(timeNow().UnixMilli(), 10)
	return fmt.Sprintf("WF-%s-%d", ms[len(ms)-6:], randIntn(1000))
}
