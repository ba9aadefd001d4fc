package model

// Analysis is the raw lifestyle analysis as delivered by an upstream
// producer. The producer is a black box (remote service, LLM, or a
// deterministic scorer); nothing here is trusted to be internally
// consistent until it has passed through the consistency checker.
type Analysis struct {
	Address          string             `json:"address,omitempty"`
	LifestyleScore   map[string]float64 `json:"lifestyleScore"`
	DetailedAnalysis DetailedAnalysis   `json:"detailedAnalysis"`
	FuturePredict    *FuturePredict     `json:"futurePredict,omitempty"`
	Swot             *Swot              `json:"swot,omitempty"`
	Capabilities     Capabilities       `json:"capabilities"`
}

// DetailedAnalysis holds the free-text portion of the raw analysis
type DetailedAnalysis struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Predictions []string `json:"predictions,omitempty"`
}

// FuturePredict holds the three-horizon outlook
type FuturePredict struct {
	OneYear   Prediction `json:"oneYear"`
	ThreeYear Prediction `json:"threeYear"`
	FiveYear  Prediction `json:"fiveYear"`
}

// Prediction is a single-horizon outlook with a confidence level
type Prediction struct {
	Text       string `json:"text"`
	Confidence int    `json:"confidence"` // 0-100
}

// Swot holds the four SWOT buckets
type Swot struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Capabilities are boolean flags declaring which data the producer
// actually consulted. They drive data-source inference in the pipeline.
type Capabilities struct {
	UsedGovernmentStats bool `json:"usedGovernmentStats"`
	UsedPlacesAPI       bool `json:"usedPlacesApi"`
	UsedTransitData     bool `json:"usedTransitData"`
	UsedCrimeData       bool `json:"usedCrimeData"`
	UsedSchoolData      bool `json:"usedSchoolData"`
}

// Coordinates is an optional WGS84 location hint
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Normalize fills in nil collections so downstream passes never have to
// distinguish "missing" from "empty". Malformed input is degraded, never
// rejected.
func (a *Analysis) Normalize() {
	if a.LifestyleScore == nil {
		a.LifestyleScore = make(map[string]float64)
	}
	if a.DetailedAnalysis.Strengths == nil {
		a.DetailedAnalysis.Strengths = []string{}
	}
	if a.DetailedAnalysis.Weaknesses == nil {
		a.DetailedAnalysis.Weaknesses = []string{}
	}
	if a.DetailedAnalysis.Predictions == nil {
		a.DetailedAnalysis.Predictions = []string{}
	}
}

// Clone returns a structural deep copy. The checker mutates the copy and
// must never alias the original, so every map and slice is duplicated.
func (a *Analysis) Clone() *Analysis {
	if a == nil {
		return nil
	}

	clone := &Analysis{
		Address:      a.Address,
		Capabilities: a.Capabilities,
	}

	if a.LifestyleScore != nil {
		clone.LifestyleScore = make(map[string]float64, len(a.LifestyleScore))
		for k, v := range a.LifestyleScore {
			clone.LifestyleScore[k] = v
		}
	}

	clone.DetailedAnalysis = DetailedAnalysis{
		Strengths:   cloneStrings(a.DetailedAnalysis.Strengths),
		Weaknesses:  cloneStrings(a.DetailedAnalysis.Weaknesses),
		Predictions: cloneStrings(a.DetailedAnalysis.Predictions),
	}

	if a.FuturePredict != nil {
		fp := *a.FuturePredict
		clone.FuturePredict = &fp
	}

	if a.Swot != nil {
		clone.Swot = &Swot{
			Strengths:     cloneStrings(a.Swot.Strengths),
			Weaknesses:    cloneStrings(a.Swot.Weaknesses),
			Opportunities: cloneStrings(a.Swot.Opportunities),
			Threats:       cloneStrings(a.Swot.Threats),
		}
	}

	return clone
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
