package rpsttesting

import (
	"math/rand"
	"testing"

	"github.com/forestrie/go-rpst/rpst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformKeysBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	keys := UniformKeys(100)
	for i := 0; i < 1000; i++ {
		require.LessOrEqual(t, keys(rng), uint64(100))
	}
}

func TestClusteredKeysDrawFromSet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	keys := ClusteredKeys(3, 9)
	for i := 0; i < 100; i++ {
		x := keys(rng)
		require.Contains(t, []uint64{3, 9}, x)
	}
	assert.Equal(t, uint64(0), ClusteredKeys()(rng))
}

func TestSnowflakeKeysStrictlyIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	keys := SnowflakeKeys(1 << 39)
	last := keys(rng)
	ms, _ := SnowflakeSplit(last)
	assert.GreaterOrEqual(t, ms, uint64(1<<39))
	assert.Equal(t, uint8(rpst.MaxHeight), rpst.HeightForX(last))

	for i := 0; i < 10_000; i++ {
		id := keys(rng)
		require.Greater(t, id, last)
		last = id
	}
}

func TestSnowflakeSplit(t *testing.T) {
	type args struct {
		id uint64
	}
	tests := []struct {
		name  string
		args  args
		want  uint64
		want1 uint32
	}{
		{"fully f'd", args{(1 << 64) - 1}, (1 << 40) - 1, 0xffffff},
		{"1 bits", args{(1 << 24) | (1 << 8) | 1}, 1, 257},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, got1 := SnowflakeSplit(tt.args.id)
			if got != tt.want {
				t.Errorf("SnowflakeSplit() got = %x, want %x", got, tt.want)
			}
			if got1 != tt.want1 {
				t.Errorf("SnowflakeSplit() got1 = %x, want %x", got1, tt.want1)
			}
		})
	}
}

func TestOracle(t *testing.T) {
	o := NewOracle()
	a, b, c := rpst.NewNode(1, 1), rpst.NewNode(5, 2), rpst.NewNode(9, 3)
	o.Add(a)
	o.Add(b)
	o.Add(c)
	assert.Equal(t, 3, o.Len())
	assert.Same(t, b, o.Find(5, 2))
	assert.Nil(t, o.Find(5, 3))
	assert.ElementsMatch(t, []*rpst.Node{a, b}, o.Query(2, 0, 10))
	assert.ElementsMatch(t, []*rpst.Node{b}, o.Query(3, 2, 8))

	o.Delete(a)
	o.Delete(a)
	assert.Equal(t, 2, o.Len())
	assert.Nil(t, o.Find(1, 1))
	assert.ElementsMatch(t, []*rpst.Node{b, c}, o.Nodes())
	assert.Equal(t, uint64(9), o.MaxInsertedX())

	rng := rand.New(rand.NewSource(1))
	assert.Contains(t, []*rpst.Node{b, c}, o.Pick(rng))
	assert.Nil(t, NewOracle().Pick(rng))
}
