package parserpool_test

import (
	"sync"
	"testing"

	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/parserpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	pool := parserpool.NewPool(2)
	defer pool.Close()

	tests := []struct {
		msg       string
		name      string
		code      nomen.Code
		parsed    bool
		canonical string
	}{
		{"botanical", "Plantago major L.", nomen.Botanical, true, "Plantago major"},
		{"botanical trinomial", "Rosa acicularis var. acicularis",
			nomen.Botanical, true, "Rosa acicularis acicularis"},
		{"zoological", "Apis mellifera Linnaeus, 1758", nomen.Zoological,
			true, "Apis mellifera"},
		{"unknown code", "Homo sapiens", nomen.UnknownCode, true, "Homo sapiens"},
		{"bacterial", "Escherichia coli", nomen.Bacterial, true, "Escherichia coli"},
		{"garbage", "((((", nomen.Zoological, false, ""},
	}

	for _, v := range tests {
		res, err := pool.Parse(v.name, v.code)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.parsed, res.Parsed, v.msg)
		if v.parsed {
			assert.Equal(t, v.canonical, res.Canonical.Simple, v.msg)
		}
	}
}

func TestParseConcurrent(t *testing.T) {
	pool := parserpool.NewPool(4)
	defer pool.Close()

	names := []string{"Homo sapiens", "Pardosa moesta", "Bubo bubo"}
	var wg sync.WaitGroup
	errs := make(chan error, 60)
	for i := range 60 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := pool.Parse(names[i%len(names)], nomen.Zoological)
			if err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	assert.Empty(t, errs)
}

func TestClosed(t *testing.T) {
	pool := parserpool.NewPool(1)
	pool.Close()
	_, err := pool.Parse("Homo sapiens", nomen.Zoological)
	assert.ErrorIs(t, err, parserpool.ErrClosed)
}
