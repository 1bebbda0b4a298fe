package testutil

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeBuffer_ConcurrentWrites(t *testing.T) {
	var buf SafeBuffer
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = buf.Write([]byte("x"))
		}()
	}
	wg.Wait()
	assert.Len(t, buf.String(), 8)
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "troop.txt", PairTroop)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, PairTroop, string(got))
}
