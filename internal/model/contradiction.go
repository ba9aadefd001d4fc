package model

// ContradictionType classifies the nature of a detected contradiction
type ContradictionType string

const (
	ContradictionNumericalPrecision   ContradictionType = "numerical-precision"    // Floating-point artifacts or excess precision
	ContradictionScoreCommentMismatch ContradictionType = "score-comment-mismatch" // Prose sentiment disagrees with its embedded score
	ContradictionLogicalInconsistency ContradictionType = "logical-inconsistency"  // Same category praised and criticized
	ContradictionThresholdViolation   ContradictionType = "threshold-violation"    // Prose sentiment disagrees with the category score band
)

// ContradictionSeverity indicates how much a contradiction damages the analysis
type ContradictionSeverity string

const (
	SeverityLow      ContradictionSeverity = "low"
	SeverityMedium   ContradictionSeverity = "medium"
	SeverityHigh     ContradictionSeverity = "high"
	SeverityCritical ContradictionSeverity = "critical"
)

// Weight returns the quality-score penalty for this severity
func (s ContradictionSeverity) Weight() int {
	switch s {
	case SeverityCritical:
		return 20
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 2
	default:
		return 0
	}
}

// AutoApplyConfidence is the minimum confidence at which a suggested fix
// is applied automatically
const AutoApplyConfidence = 85

// Contradiction is a single detected disagreement between two parts of an
// analysis. Immutable once produced.
type Contradiction struct {
	Type        ContradictionType     `json:"type"`
	Severity    ContradictionSeverity `json:"severity"`
	Category    string                `json:"category,omitempty"` // Semantic category involved, if known
	Description string                `json:"description"`
	Original    string                `json:"original"`
	Suggested   string                `json:"suggested"`
	Confidence  int                   `json:"confidence"`     // 0-100
	Path        string                `json:"path,omitempty"` // Location of the defect inside the analysis (e.g. "lifestyleScore.education", "strengths[2]")
}

// AutoAppliable reports whether the suggested fix is safe to apply without
// review. Only precision fixes and comment rewrites qualify; logical and
// threshold contradictions are reported but left to the merge policy.
func (c Contradiction) AutoAppliable() bool {
	if c.Confidence < AutoApplyConfidence {
		return false
	}
	return c.Type == ContradictionNumericalPrecision || c.Type == ContradictionScoreCommentMismatch
}

// ValidationResult summarizes checker findings for one semantic category
type ValidationResult struct {
	Category        string   `json:"category"`
	Passed          bool     `json:"passed"`
	Score           float64  `json:"score"` // 0-100
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// ConsistentResult is the complete output of the consistency checker
type ConsistentResult struct {
	Original          *Analysis          `json:"original"`  // Untouched deep copy of the input
	Corrected         *Analysis          `json:"corrected"` // Copy with auto-appliable fixes applied
	Contradictions    []Contradiction    `json:"contradictions"`
	QualityScore      int                `json:"qualityScore"` // 0-100
	Improvements      []string           `json:"improvements"`
	ValidationResults []ValidationResult `json:"validationResults"`
}
