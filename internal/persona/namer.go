package persona

import (
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/personalab/internal/model"
)

var firstNames = []string{
	"Alex", "Jordan", "Taylor", "Morgan",
	"Casey", "Riley", "Avery", "Quinn",
	"Sam", "Jamie", "Drew", "Cameron",
	"Skyler", "Reese", "Parker", "Rowan",
}

// Namer produces display names like "Quinn the analytical".
type Namer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewNamer returns a Namer drawing from a generator seeded with seed.
// A zero seed uses the current time.
func NewNamer(seed int64) *Namer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Namer{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))}
}

// Name picks a random first name and appends the top trait, lower-cased.
func (n *Namer) Name(scores model.TraitScores) string {
	n.mu.Lock()
	first := firstNames[n.rng.IntN(len(firstNames))]
	n.mu.Unlock()
	return first + " the " + strings.ToLower(string(TopTrait(scores)))
}

// TopTrait returns the highest-scoring trait. Ties, including the all-zero
// case, go to the alphabetically first trait name.
func TopTrait(scores model.TraitScores) model.Trait {
	candidates := make([]model.Trait, len(model.AllTraits))
	copy(candidates, model.AllTraits)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	top := candidates[0]
	for _, t := range candidates[1:] {
		if scores[t] > scores[top] {
			top = t
		}
	}
	return top
}
