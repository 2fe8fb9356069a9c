package catalog

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

const validBank = `{
  "problems": [
    {
      "id": "py-easy-1",
      "language": "python",
      "difficulty": "Easy",
      "task": "Order the function",
      "allowed_moves": 10,
      "code_chunks": [
        {"id": "a", "content": "def f(x):"},
        {"id": "b", "content": "    return x"},
        {"id": "c", "content": "print(999)", "is_distractor": true}
      ],
      "solution_order": ["a", "b"]
    },
    {
      "id": "py-easy-2",
      "language": "python",
      "difficulty": "Easy",
      "task": "Order the loop",
      "allowed_moves": 8,
      "code_chunks": [
        {"id": "a", "content": "for i in r:"},
        {"id": "b", "content": "    pass"}
      ],
      "solution_order": ["a", "b"]
    },
    {
      "id": "go-hard-1",
      "language": "go",
      "difficulty": "Hard",
      "task": "Order the goroutine",
      "allowed_moves": 15,
      "code_chunks": [
        {"id": "a", "content": "go func() {"},
        {"id": "b", "content": "}()"}
      ],
      "solution_order": ["a", "b"]
    }
  ]
}`

func TestParseValidBank(t *testing.T) {
	c, err := Parse([]byte(validBank))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if _, ok := c.ByID("go-hard-1"); !ok {
		t.Fatal("ByID missed go-hard-1")
	}
}

func TestParseRejectsBadContent(t *testing.T) {
	cases := map[string]string{
		"empty file":       "   \n ",
		"invalid json":     "{problems: oops",
		"missing problems": `{"other": true}`,
		"no solution order": `{"problems": [{"id": "x", "language": "go", "difficulty": "Easy",
			"allowed_moves": 5, "code_chunks": [{"id": "a", "content": "x"}], "solution_order": []}]}`,
		"unknown chunk ref": `{"problems": [{"id": "x", "language": "go", "difficulty": "Easy",
			"allowed_moves": 5, "code_chunks": [{"id": "a", "content": "x"}], "solution_order": ["zz"]}]}`,
		"distractor in solution": `{"problems": [{"id": "x", "language": "go", "difficulty": "Easy",
			"allowed_moves": 5, "code_chunks": [{"id": "a", "content": "x", "is_distractor": true}],
			"solution_order": ["a"]}]}`,
		"zero move budget": `{"problems": [{"id": "x", "language": "go", "difficulty": "Easy",
			"allowed_moves": 0, "code_chunks": [{"id": "a", "content": "x"}], "solution_order": ["a"]}]}`,
		"duplicate problem id": `{"problems": [
			{"id": "x", "language": "go", "difficulty": "Easy", "allowed_moves": 5,
			 "code_chunks": [{"id": "a", "content": "x"}], "solution_order": ["a"]},
			{"id": "x", "language": "go", "difficulty": "Easy", "allowed_moves": 5,
			 "code_chunks": [{"id": "a", "content": "x"}], "solution_order": ["a"]}]}`,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			if !errors.Is(err, ErrUnavailable) {
				t.Fatalf("err = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestMatchingFiltersByPair(t *testing.T) {
	c, err := Parse([]byte(validBank))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	easy := c.Matching(models.DifficultyEasy, "python")
	if len(easy) != 2 {
		t.Fatalf("Matching(Easy, python) = %d problems, want 2", len(easy))
	}
	if got := c.Matching(models.DifficultyMedium, "python"); len(got) != 0 {
		t.Fatalf("Matching(Medium, python) = %d problems, want 0", len(got))
	}
}

func TestPickRandomReturnsMatch(t *testing.T) {
	c, err := Parse([]byte(validBank))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rng := rand.New(rand.NewSource(1))

	p, err := c.PickRandom(rng, models.DifficultyHard, "go")
	if err != nil {
		t.Fatalf("PickRandom: %v", err)
	}
	if p.ID != "go-hard-1" {
		t.Fatalf("picked %q, want go-hard-1", p.ID)
	}

	if _, err := c.PickRandom(rng, models.DifficultyHard, "python"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/problems.json"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
