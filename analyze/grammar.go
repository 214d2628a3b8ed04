package analyze

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nirmaan-labs/intro-coach/clients"
)

// Finding is one detected grammar or style issue, with a character offset
// into the flattened transcript.
type Finding struct {
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Message      string   `json:"msg"`
	Category     string   `json:"category"`
	Replacements []string `json:"replacements,omitempty"`
	Context      string   `json:"context,omitempty"`
}

// Checker is the statistical grammar tier. *clients.LanguageTool satisfies it;
// a nil checker means only the rule tier runs.
type Checker interface {
	Check(ctx context.Context, text string) (*clients.LTResp, error)
}

var (
	// "Myself Raj" openers
	myselfRe = regexp.MustCompile(`\b[Mm]yself\s+[A-Z][a-z]+`)
	// "one of my cousin" with the plural missing; \b rejects "cousins"
	pluralRe = regexp.MustCompile(`(?i)\bone of my (cousin|friend|brother|sister|parent|student|teacher)\b`)
	// "I is", "they is"
	svaRe = regexp.MustCompile(`(?i)\b(I|You|We|They)\s+is\b`)

	redundantRes = []struct {
		re  *regexp.Regexp
		msg string
	}{
		{regexp.MustCompile(`(?i)return back`), "Redundant. Just say 'return'."},
		{regexp.MustCompile(`(?i)discuss about`), "Redundant. Just say 'discuss'."},
	}
)

type Grammar struct {
	checker Checker
	log     *logrus.Entry
}

// NewGrammar wires the optional checker tier. Pass a nil Checker when the
// LanguageTool server was unreachable at startup; scoring then runs rule-only.
func NewGrammar(checker Checker, log *logrus.Entry) *Grammar {
	if checker == nil {
		log.Warn("grammar checker unavailable, rule tier only")
	}
	return &Grammar{checker: checker, log: log}
}

// Analyze returns the rule-tier findings followed by the checker-tier
// findings. The tiers are concatenated, not deduplicated.
func (g *Grammar) Analyze(ctx context.Context, text string) ([]Finding, error) {
	findings := ruleFindings(text)

	if g.checker != nil {
		resp, err := g.checker.Check(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("grammar check: %w", err)
		}
		// LanguageTool reports offsets in characters; findings are
		// byte-indexed like the rule tier and the segment mapper
		var runeIdx []int
		if len(resp.Matches) > 0 {
			runeIdx = runeIndex(text)
		}
		for _, m := range resp.Matches {
			reps := make([]string, 0, 2)
			for _, r := range m.Replacements {
				if len(reps) == 2 {
					break
				}
				reps = append(reps, r.Value)
			}
			off, end := byteSpan(runeIdx, m.Offset, m.Length)
			findings = append(findings, Finding{
				Offset:       off,
				Length:       end - off,
				Message:      m.Message,
				Category:     m.Rule.Category.Name,
				Replacements: reps,
				Context:      snippet(text, off, end-off),
			})
		}
	}
	return findings, nil
}

func ruleFindings(text string) []Finding {
	var out []Finding

	for _, loc := range myselfRe.FindAllStringIndex(text, -1) {
		out = append(out, Finding{
			Offset:       loc[0],
			Length:       loc[1] - loc[0],
			Message:      "Incorrect usage of 'Myself'. Use 'My name is' or 'I am'.",
			Category:     "Custom Rule",
			Replacements: []string{"My name is ..."},
			Context:      snippet(text, loc[0], loc[1]-loc[0]),
		})
	}

	for _, m := range pluralRe.FindAllStringSubmatchIndex(text, -1) {
		noun := strings.ToLower(text[m[2]:m[3]])
		out = append(out, Finding{
			Offset:       m[0],
			Length:       m[1] - m[0],
			Message:      fmt.Sprintf("Plural missing. Say 'one of my %ss'.", noun),
			Category:     "Grammar",
			Replacements: []string{fmt.Sprintf("one of my %ss", noun)},
			Context:      snippet(text, m[0], m[1]-m[0]),
		})
	}

	for _, m := range svaRe.FindAllStringSubmatchIndex(text, -1) {
		subject := text[m[2]:m[3]]
		rep := "are"
		if strings.EqualFold(subject, "i") {
			rep = "am"
		}
		out = append(out, Finding{
			Offset:       m[0],
			Length:       m[1] - m[0],
			Message:      fmt.Sprintf("Subject-verb disagreement. '%s' does not take 'is'.", subject),
			Category:     "Grammar",
			Replacements: []string{rep},
			Context:      snippet(text, m[0], m[1]-m[0]),
		})
	}

	for _, rp := range redundantRes {
		for _, loc := range rp.re.FindAllStringIndex(text, -1) {
			out = append(out, Finding{
				Offset:   loc[0],
				Length:   loc[1] - loc[0],
				Message:  rp.msg,
				Category: "Redundancy",
				Context:  text[loc[0]:loc[1]],
			})
		}
	}
	return out
}

// runeIndex maps each rune position to its byte offset, with a final entry
// for the end of the string.
func runeIndex(s string) []int {
	idx := make([]int, 0, len(s)+1)
	for i := range s {
		idx = append(idx, i)
	}
	return append(idx, len(s))
}

// byteSpan converts a character offset and length to a byte span, clamping
// out-of-range values to the text bounds.
func byteSpan(idx []int, off, length int) (int, int) {
	last := len(idx) - 1
	if off < 0 {
		off = 0
	}
	if off > last {
		off = last
	}
	end := off + length
	if end < off {
		end = off
	}
	if end > last {
		end = last
	}
	return idx[off], idx[end]
}

func snippet(text string, offset, length int) string {
	lo := offset - 10
	if lo < 0 {
		lo = 0
	}
	hi := offset + length + 10
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
