package flow

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/atomic"

	"github.com/Allchin/Sentinel/core/base"
)

// warmUpController shapes admitted QPS so that a cold resource ramps up
// to its stable threshold over WarmUpPeriodSec instead of being hit at
// full rate immediately. The formulas are carried over bit for bit from
// WarmUpController.java (itself adapted from Guava's SmoothRateLimiter):
// count tokens accumulate while the resource is under-used and drain as
// it is used, and the instantaneous allowed QPS is a linear function of
// how many tokens remain once usage crosses warningToken.
type warmUpController struct {
	count      float64
	coldFactor uint32

	warningToken int64
	maxToken     int64
	slope        float64

	storedTokens   atomic.Int64
	lastFilledTime atomic.Int64
}

func newWarmUpController(count float64, warmUpPeriodSec, coldFactor uint32) (*warmUpController, error) {
	if coldFactor <= 1 {
		return nil, newConfigError(fmt.Sprintf("warm-up cold factor must be > 1, got %d", coldFactor))
	}

	// warningToken = warmUpPeriodSec * count / (coldFactor - 1)
	warningToken := int64(float64(warmUpPeriodSec)*count) / int64(coldFactor-1)
	// maxToken = warningToken + 2*warmUpPeriodSec*count / (1 + coldFactor)
	maxToken := warningToken + int64(2*float64(warmUpPeriodSec)*count/(1.0+float64(coldFactor)))
	// slope = (coldFactor - 1) / count / (maxToken - warningToken)
	slope := (float64(coldFactor) - 1.0) / count / float64(maxToken-warningToken)

	return &warmUpController{
		count:        count,
		coldFactor:   coldFactor,
		warningToken: warningToken,
		maxToken:     maxToken,
		slope:        slope,
	}, nil
}

func (c *warmUpController) canPass(node base.StatNode, acquireCount uint32) bool {
	if node == nil {
		return true
	}
	passQps := int64(node.PassQps())
	previousQps := int64(node.PreviousPassQps())

	c.syncToken(previousQps)

	restToken := c.storedTokens.Load()
	if restToken >= c.warningToken {
		aboveToken := restToken - c.warningToken
		warningQps := math.Nextafter(1.0/(float64(aboveToken)*c.slope+1.0/c.count), math.Inf(1))
		return float64(passQps+int64(acquireCount)) <= warningQps
	}
	return float64(passQps+int64(acquireCount)) <= c.count
}

// syncToken refills storedTokens for the seconds elapsed since the last
// fill, then debits previousQps from the result. The two publishes to
// storedTokens are kept in that order (refill, then debit) rather than
// combined into one CAS, matching the reference implementation; a
// concurrent reader can observe storedTokens between the two updates,
// which is acceptable since refill is idempotent up to at most once per
// second.
func (c *warmUpController) syncToken(previousQps int64) {
	currentSec := (time.Now().UnixMilli() / 1000) * 1000

	oldLastFilled := c.lastFilledTime.Load()
	if currentSec <= oldLastFilled {
		return
	}

	oldValue := c.storedTokens.Load()
	newValue := c.coolDownTokens(currentSec, oldLastFilled, oldValue, previousQps)

	if c.storedTokens.CAS(oldValue, newValue) {
		current := c.storedTokens.Sub(previousQps)
		if current < 0 {
			c.storedTokens.Store(0)
		}
		c.lastFilledTime.Store(currentSec)
	}
}

func (c *warmUpController) coolDownTokens(currentSec, lastFilled, oldValue, previousQps int64) int64 {
	newValue := oldValue

	switch {
	case oldValue < c.warningToken:
		newValue = oldValue + int64(float64(currentSec-lastFilled)*c.count/1000)
	case oldValue > c.warningToken:
		if previousQps < int64(c.count)/int64(c.coldFactor) {
			newValue = oldValue + int64(float64(currentSec-lastFilled)*c.count/1000)
		}
	}
	if newValue > c.maxToken {
		return c.maxToken
	}
	return newValue
}
