package llm

import (
	"fmt"
	"strings"

	"github.com/gittles17/newshooks/internal/config"
	"github.com/gittles17/newshooks/internal/domain"
)

const candidateExcerptLimit = 600

const systemPrompt = `You are a media analyst for Glossi, reviewing technology-news candidates for marketing "news hooks". You only ever work from the candidate list you are given; you never invent articles. You respond with a single JSON object and nothing else.`

const rubric = `COMPANY BRIEF
Glossi is a virtual production platform: marketing and e-commerce teams drop a 3D model of their product into a browser-based studio and render photoreal product imagery and video without a physical photoshoot.
Target buyer: heads of brand, creative, and e-commerce content at consumer brands, retailers, and agencies.

RELEVANT TOPICS
- generative AI for marketing and creative production
- 3D, AR, or virtual product visualization and virtual photography
- e-commerce product content, PDP imagery, visual merchandising
- creative automation, content supply chains, DAM tooling
- brand campaign production costs, photoshoot logistics
- game-engine rendering used outside games

NOT RELEVANT
- cryptocurrency and web3 speculation
- consumer gadget reviews and deals roundups
- enterprise infrastructure with no creative or commerce angle
- social-platform policy news unless it changes how brands produce content`

const inclusiveInstructions = `Keep every candidate with even a tangential connection to the relevant topics. For each kept candidate return a two-sentence summary and one sentence on why a Glossi marketer should care.

Respond with: {"articles": [{"title", "url", "outlet", "date", "summary", "relevance"}]}
Copy title, url, outlet, and date from the candidate verbatim.`

const strictInstructionsFmt = `Select at most %d candidates. For each selection, name which numbered relevant topic it satisfies inside the "relevance" field and justify the match in one sentence; discard anything that needs a stretch. Also propose a story angle: a short "angle_title" and a two-sentence "angle_narrative" pitching how Glossi's team could ride the story.

Respond with: {"articles": [{"title", "url", "outlet", "date", "summary", "relevance", "angle_title", "angle_narrative"}]}
Copy title, url, outlet, and date from the candidate verbatim.`

const rankedInstructions = `Rank the relevant candidates from strongest to weakest hook. For each, return a two-sentence summary, a one-sentence "relevance" judgment, and a concrete, actionable "takeaway": one specific move Glossi's marketing team should make this week because of the story. Vague takeaways ("monitor the space") disqualify the item.

Respond with: {"news": [{"title", "url", "outlet", "date", "summary", "relevance", "takeaway"}]}
Copy title, url, outlet, and date from the candidate verbatim.`

// buildPrompt assembles the user message: rubric, mode instructions, and
// the enumerated candidate list.
func buildPrompt(mode string, maxPicks int, candidates []domain.CandidateArticle) string {
	var b strings.Builder
	b.WriteString(rubric)
	b.WriteString("\n\nINSTRUCTIONS\n")

	switch mode {
	case config.ModeStrict:
		fmt.Fprintf(&b, strictInstructionsFmt, maxPicks)
	case config.ModeRanked:
		b.WriteString(rankedInstructions)
	default:
		b.WriteString(inclusiveInstructions)
	}

	b.WriteString("\n\nCANDIDATES\n")
	for i, c := range candidates {
		date := ""
		if c.PublishedAt != nil {
			date = c.PublishedAt.Format("2006-01-02")
		}
		context := c.Snippet
		if c.Body != "" {
			context = c.Body
		}
		fmt.Fprintf(&b, "%d. title: %s | outlet: %s | date: %s | url: %s\n   %s\n",
			i+1, c.Title, c.Outlet, date, c.URL, excerptForPrompt(context))
	}

	return b.String()
}

func excerptForPrompt(text string) string {
	runes := []rune(text)
	if len(runes) <= candidateExcerptLimit {
		return text
	}
	return string(runes[:candidateExcerptLimit]) + "…"
}
