package match

// Candidate is a library entity a file can be reconciled against: a track
// (Disc = disc number) or an episode (Disc = season number).
type Candidate struct {
	ID     int64
	Disc   int
	Number int
	Title  string
}

// FileIdentity carries the matching signals for one discovered file.
// Number/Disc come from embedded tags (or the download record); ParsedNumber/
// ParsedDisc come from the filename and are only trusted as a last resort.
type FileIdentity struct {
	Number       int
	Disc         int
	Title        string
	ParsedNumber int
	ParsedDisc   int
}

// Strategy is one way of pairing a file with a candidate. Strategies are
// tried in a fixed order; the first non-nil result wins.
type Strategy interface {
	Name() string
	Match(id FileIdentity, cands []Candidate) *Candidate
}

// First runs the strategies in order and returns the first match along with
// the name of the strategy that produced it. Returns nil when every strategy
// passes: a wrong match is worse than no match.
func First(id FileIdentity, cands []Candidate, strategies ...Strategy) (*Candidate, string) {
	for _, s := range strategies {
		if c := s.Match(id, cands); c != nil {
			return c, s.Name()
		}
	}
	return nil, ""
}

// DefaultChain is the reconciliation order: explicit numbers from tags, then
// fuzzy title, then numbers parsed from the filename.
func DefaultChain() []Strategy {
	return []Strategy{
		ByExplicitNumber{},
		ByFuzzyTitle{Min: ConfidenceMedium},
		ByParsedNumber{},
	}
}

// ByExplicitNumber matches on the tag-supplied number and disc.
type ByExplicitNumber struct{}

func (ByExplicitNumber) Name() string { return "explicit-number" }

func (ByExplicitNumber) Match(id FileIdentity, cands []Candidate) *Candidate {
	if id.Number == 0 {
		return nil
	}
	return matchNumber(id.Number, id.Disc, cands)
}

// ByFuzzyTitle matches on the tag-supplied title when it clears the minimum
// confidence.
type ByFuzzyTitle struct {
	Min Confidence
}

func (ByFuzzyTitle) Name() string { return "fuzzy-title" }

func (s ByFuzzyTitle) Match(id FileIdentity, cands []Candidate) *Candidate {
	if id.Title == "" {
		return nil
	}
	titles := make([]string, len(cands))
	for i, c := range cands {
		titles[i] = c.Title
	}
	res := FuzzyTitle(id.Title, titles)
	if res.Index < 0 || res.Confidence < s.Min {
		return nil
	}
	c := cands[res.Index]
	return &c
}

// ByParsedNumber matches on the filename-parsed number and disc.
type ByParsedNumber struct{}

func (ByParsedNumber) Name() string { return "parsed-number" }

func (ByParsedNumber) Match(id FileIdentity, cands []Candidate) *Candidate {
	if id.ParsedNumber == 0 {
		return nil
	}
	return matchNumber(id.ParsedNumber, id.ParsedDisc, cands)
}

// matchNumber finds the candidate with the given number on the given disc.
// Disc 0 and disc 1 are treated as the same disc: single-disc albums are
// tagged both ways in the wild.
func matchNumber(number, disc int, cands []Candidate) *Candidate {
	for _, c := range cands {
		if c.Number != number {
			continue
		}
		if normalizeDisc(c.Disc) == normalizeDisc(disc) {
			out := c
			return &out
		}
	}
	return nil
}

func normalizeDisc(d int) int {
	if d == 0 {
		return 1
	}
	return d
}
