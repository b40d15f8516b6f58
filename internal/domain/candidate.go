package domain

// Candidate is one catalog row returned by lexical recall. BaseScore is the
// blend of trigram similarity and text-search rank computed by the recall
// query; the reranker only ever adds deltas to it.
type Candidate struct {
	Code        string  `json:"code" db:"code"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Brand       string  `json:"brand" db:"brand"`
	Model       string  `json:"model" db:"model"`
	Price       float64 `json:"price" db:"price1"`
	Unit        string  `json:"unit" db:"unit"`
	BaseScore   float64 `json:"base_score" db:"base_score"`
}

// SearchText joins the candidate's text fields in the order the reranker
// scans them.
func (c *Candidate) SearchText() string {
	return c.Name + " " + c.Description + " " + c.Brand + " " + c.Model
}

// ScoredCandidate is a candidate plus the reranker's adjustment.
// FinalScore = BaseScore + Adjustment.
type ScoredCandidate struct {
	Candidate
	Adjustment float64 `json:"adjustment"`
	FinalScore float64 `json:"final_score"`
}

// MatchSpec is the structured intent extracted from a request line: what the
// requester is asking for in domain terms, independent of phrasing.
type MatchSpec struct {
	Category       string   `json:"category,omitempty"`
	Gauge          string   `json:"gauge,omitempty"`
	Amperage       string   `json:"amperage,omitempty"`
	WantsInsulated bool     `json:"wants_insulated"`
	WantsBare      bool     `json:"wants_bare"`
	WantsRoll      bool     `json:"wants_roll"`
	Warnings       []string `json:"warnings,omitempty"`
}

// WarnAmbiguousFinish is set when a request matches both the insulated and the
// bare keyword groups; both flags are cleared and the conflict is surfaced
// here instead of guessing.
const WarnAmbiguousFinish = "INSULATED_BARE_AMBIGUOUS"

// CandidateFlags are the same domain attributes extracted from a candidate's
// catalog text rather than from the request.
type CandidateFlags struct {
	Gauge        string
	Amperage     string
	HasInsulated bool
	HasBare      bool
	HasRoll      bool
}
