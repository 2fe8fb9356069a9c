// Package catalog loads the read-only problem bank. The bank is keyed by
// language and difficulty; absent or malformed content degrades to a typed
// error that surfaces as a blocking "no problems" state, never a crash.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

// ErrUnavailable wraps every data-integrity failure of the bank file.
var ErrUnavailable = errors.New("problem catalog unavailable")

// ErrNoMatch is returned when no problem exists for a difficulty/language
// pair. It is a blocking condition for the player, not an elimination.
var ErrNoMatch = errors.New("no problems available")

// Catalog is the loaded, validated problem bank.
type Catalog struct {
	problems []models.Problem
	byID     map[string]models.Problem
}

// Load reads and validates the bank file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, path, err)
	}
	return Parse(data)
}

// Parse validates raw bank content. Empty or structurally invalid content is
// rejected wholesale; no partial catalog is ever used.
func Parse(data []byte) (*Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrUnavailable)
	}

	var bank models.ProblemsData
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrUnavailable, err)
	}
	if bank.Problems == nil {
		return nil, fmt.Errorf("%w: missing problems array", ErrUnavailable)
	}

	byID := make(map[string]models.Problem, len(bank.Problems))
	for _, p := range bank.Problems {
		if err := validateProblem(p); err != nil {
			return nil, fmt.Errorf("%w: problem %q: %v", ErrUnavailable, p.ID, err)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate problem id %q", ErrUnavailable, p.ID)
		}
		byID[p.ID] = p
	}

	log.Info().Int("problems", len(bank.Problems)).Msg("problem catalog loaded")
	return &Catalog{problems: bank.Problems, byID: byID}, nil
}

// validateProblem checks chunk-set integrity: every id in the canonical
// solution order must name an existing, non-distractor chunk.
func validateProblem(p models.Problem) error {
	if p.ID == "" {
		return errors.New("missing id")
	}
	if p.AllowedMoves <= 0 {
		return errors.New("allowed_moves must be positive")
	}

	chunks := make(map[string]models.CodeChunk, len(p.CodeChunks))
	for _, c := range p.CodeChunks {
		if _, dup := chunks[c.ID]; dup {
			return fmt.Errorf("duplicate chunk id %q", c.ID)
		}
		chunks[c.ID] = c
	}

	if len(p.SolutionOrder) == 0 {
		return errors.New("empty solution_order")
	}
	for _, id := range p.SolutionOrder {
		chunk, ok := chunks[id]
		if !ok {
			return fmt.Errorf("solution_order references unknown chunk %q", id)
		}
		if chunk.IsDistractor {
			return fmt.Errorf("solution_order references distractor chunk %q", id)
		}
	}
	return nil
}

// Len returns the number of problems in the bank.
func (c *Catalog) Len() int {
	return len(c.problems)
}

// ByID returns the problem with the given id.
func (c *Catalog) ByID(id string) (models.Problem, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Matching returns every problem for the difficulty/language pair.
func (c *Catalog) Matching(difficulty models.Difficulty, language string) []models.Problem {
	var out []models.Problem
	for _, p := range c.problems {
		if p.Difficulty == difficulty && p.Language == language {
			out = append(out, p)
		}
	}
	return out
}

// PickRandom selects uniformly among problems matching the pair, or
// ErrNoMatch when none exist.
func (c *Catalog) PickRandom(rng *rand.Rand, difficulty models.Difficulty, language string) (models.Problem, error) {
	matching := c.Matching(difficulty, language)
	if len(matching) == 0 {
		return models.Problem{}, fmt.Errorf("%w for %s/%s", ErrNoMatch, difficulty, language)
	}
	return matching[rng.Intn(len(matching))], nil
}
