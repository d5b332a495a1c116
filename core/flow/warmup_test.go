package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Allchin/Sentinel/internal/teststat"
)

func TestWarmUpController_DerivedConstants(t *testing.T) {
	// count=10, warmUpPeriodSec=10, coldFactor=3 (the canonical example
	// from the reference implementation's own test suite):
	// warningToken = 10*10/(3-1) = 50
	// maxToken = 50 + 2*10*10/(1+3) = 50 + 50 = 100
	// slope = (3-1)/10/(100-50) = 0.004
	c, err := newWarmUpController(10, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.warningToken)
	assert.Equal(t, int64(100), c.maxToken)
	assert.InDelta(t, 0.004, c.slope, 1e-9)
}

func TestWarmUpController_StableRegimeAdmitsUpToCount(t *testing.T) {
	c, err := newWarmUpController(10, 10, 3)
	require.NoError(t, err)
	// Pin lastFilledTime far in the future so syncToken's "already
	// filled for this second" check always short-circuits, freezing
	// storedTokens at 0 (< warningToken: stable regime) regardless of
	// when the test actually runs.
	c.lastFilledTime.Store(1 << 62)

	node := teststat.NewNode()
	node.SetPassQps(9)
	node.SetPreviousPassQps(0)
	assert.True(t, c.canPass(node, 1))

	node.SetPassQps(10)
	assert.False(t, c.canPass(node, 1))
}

func TestWarmUpController_WarmingRegimeThrottlesBelowCount(t *testing.T) {
	c, err := newWarmUpController(10, 10, 3)
	require.NoError(t, err)
	c.storedTokens.Store(c.warningToken + 10) // force warming regime
	c.lastFilledTime.Store(1 << 62)           // freeze token state, see above

	node := teststat.NewNode()
	node.SetPreviousPassQps(0)
	node.SetPassQps(10)
	// In the warming regime the allowed QPS is strictly less than count,
	// so a call requesting up to the full stable threshold is denied.
	assert.False(t, c.canPass(node, 0))
}

func TestWarmUpController_NilNodeAdmits(t *testing.T) {
	c, err := newWarmUpController(10, 10, 3)
	require.NoError(t, err)
	assert.True(t, c.canPass(nil, 1))
}

func TestWarmUpController_CoolDownRefillsOnlyWhenColdOrUnderused(t *testing.T) {
	c, err := newWarmUpController(10, 10, 3)
	require.NoError(t, err)

	// old < warningToken: always refills at rate count/sec.
	refilled := c.coolDownTokens(1000, 0, 10, 999)
	assert.Greater(t, refilled, int64(10))

	// old > warningToken and system busy (prevQps >= count/coldFactor):
	// no refill.
	busy := c.coolDownTokens(1000, 0, c.warningToken+1, 100)
	assert.Equal(t, c.warningToken+1, busy)

	// old > warningToken and system idle: refills.
	idle := c.coolDownTokens(1000, 0, c.warningToken+1, 0)
	assert.Greater(t, idle, c.warningToken+1)

	// old == warningToken: no refill either branch fires.
	exact := c.coolDownTokens(1000, 0, c.warningToken, 0)
	assert.Equal(t, c.warningToken, exact)

	// Never exceeds maxToken.
	capped := c.coolDownTokens(1000000, 0, 0, 0)
	assert.Equal(t, c.maxToken, capped)
}

func TestNewWarmUpController_RejectsColdFactorLessThanOrEqualOne(t *testing.T) {
	_, err := newWarmUpController(10, 10, 1)
	require.Error(t, err)
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)

	_, err = newWarmUpController(10, 10, 0)
	require.Error(t, err)
	require.ErrorAs(t, err, &configErr)
}
