package rpsttesting

import (
	"math/rand"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type TestContext struct {
	Log   logger.Logger
	T     *testing.T
	RunID uuid.UUID
	Rand  *rand.Rand
	Seed  int64
}

type TestConfig struct {
	// Seed seeds the context RNG. It is normal to force it to some fixed value
	// so that the generated data is the same from run to run. Zero picks a
	// seed from the run id, which is logged.
	Seed            int64
	TestLabelPrefix string
	LogLevel        string // defaults to "INFO"
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T:     t,
		RunID: uuid.New(),
	}
	level := cfg.LogLevel
	if level == "" {
		level = "INFO"
	}
	logger.New(level)
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)

	c.Seed = cfg.Seed
	if c.Seed == 0 {
		c.Seed = seedFromRunID(c.RunID)
	}
	c.Rand = rand.New(rand.NewSource(c.Seed))
	c.Log.Infof("run %s seed %d", c.RunID, c.Seed)
	return c
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// seedFromRunID folds the run id into a non zero seed.
func seedFromRunID(id uuid.UUID) int64 {
	var seed uint64
	for i, b := range id {
		seed ^= uint64(b) << (8 * (i % 8))
	}
	if s := int64(seed >> 1); s != 0 {
		return s
	}
	return 1
}

// Stress runs a stress sequence seeded from the context and fails the test on
// any disagreement. The run id labels the trace, written to a temp dir on
// failure.
func (c *TestContext) Stress(opts ...StressOption) StressResult {
	opts = append([]StressOption{
		WithRunID(c.RunID.String()),
		WithTraceDir(c.T.TempDir()),
	}, opts...)
	res, err := Stress(c.Log, c.Rand.Int63(), opts...)
	require.NoError(c.T, err, "trace: %s", res.TracePath)
	return res
}
