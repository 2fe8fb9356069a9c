package models

// CodeChunk is one draggable fragment of a problem. Distractor chunks never
// appear in the canonical solution order.
type CodeChunk struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	IsDistractor bool   `json:"is_distractor"`
}

// Problem is one entry of the read-only problem bank, keyed by language and
// difficulty.
type Problem struct {
	ID            string      `json:"id"`
	Language      string      `json:"language"`
	Difficulty    Difficulty  `json:"difficulty"`
	Task          string      `json:"task"`
	AllowedMoves  int         `json:"allowed_moves"`
	CodeChunks    []CodeChunk `json:"code_chunks"`
	SolutionOrder []string    `json:"solution_order"`
}

// ProblemsData is the top-level shape of the catalog file.
type ProblemsData struct {
	Problems []Problem `json:"problems"`
}

// Arrangement is a player's in-progress drag state: the remaining fragment
// pool and the ordered solution attempt. The multiset union of the two lists
// always equals the assigned problem's full chunk set.
type Arrangement struct {
	Fragments []CodeChunk `json:"fragments"`
	Solution  []CodeChunk `json:"solution"`
}
