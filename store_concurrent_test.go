package gitconfig

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConcurrentMergedView checks that independent calls share no state.
func TestConcurrentMergedView(t *testing.T) {
	t.Parallel()

	s, repo := newTestStore(t)
	writeScopeFile(t, s, ScopeSystem, repo, "[user]\n\tname = sys\n")
	writeScopeFile(t, s, ScopeGlobal, repo, "[user]\n\tname = glob\n[core]\n\teditor = vim\n")
	writeScopeFile(t, s, ScopeLocal, repo, "[remote \"origin\"]\n\turl = https://example.com/r.git\n")

	var wg sync.WaitGroup
	for g := range 10 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			for range 20 {
				if id%2 == 0 {
					merged, err := s.MergedView(repo)
					assert.NoError(t, err)
					e, found := Effective(merged, "user.name")
					assert.True(t, found)
					assert.Equal(t, "glob", e.Value)

					continue
				}

				entries, err := s.ReadScope(ScopeLocal, repo)
				assert.NoError(t, err)
				assert.Len(t, entries, 1)
			}
		}(g)
	}

	wg.Wait()
}
