package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/prospector"
)

// qaSystem is the system instruction for grounded question answering.
const qaSystem = "You are a research assistant. Answer using only the provided context. " +
	"Use three sentences maximum and keep the answer concise. " +
	"If the context does not contain the answer, say you don't know."

// strategySystem is the system instruction for strategy synthesis.
const strategySystem = "You are an expert B2B sales strategist. " +
	"You write actionable, specific sales strategies grounded in research about the target company."

// appendix accumulates source URLs in first-seen order across all index
// queries of a run.
type appendix struct {
	seen map[string]bool
	urls []string
}

func newAppendix() *appendix {
	return &appendix{seen: make(map[string]bool)}
}

func (a *appendix) add(matches []prospector.Match) {
	for _, m := range matches {
		u := m.Metadata.SourceURL
		if u == "" || a.seen[u] {
			continue
		}
		a.seen[u] = true
		a.urls = append(a.urls, u)
	}
}

// rosterEntry is the JSON shape of a team roster item.
type rosterEntry struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// membership is the JSON shape of an affiliation check.
type membership struct {
	Member bool `json:"member"`
}

// companyProfile identifies the company behind the indexed site. Failure
// here is fatal: without a company identity the report has no subject.
func (p *Pipeline) companyProfile(ctx context.Context, collection string) (prospector.CompanyProfile, *appendix, error) {
	app := newAppendix()

	matches, err := p.query(ctx, collection, "What company does this site belong to?",
		&prospector.QueryFilter{CompanyLikely: true})
	if err != nil {
		return prospector.CompanyProfile{}, nil, err
	}
	app.add(matches)

	prompt := fmt.Sprintf(`Using only the context below, identify the company this website belongs to.

<context>
%s
</context>

Respond with a JSON object with string fields "name", "summary" (what the company does), and "mission". Use an empty string for anything the context does not establish.`, contextFromMatches(matches))

	profile, ok, err := generateParsed[prospector.CompanyProfile](ctx, p.Generator, prospector.GenerateRequest{
		Prompt: prompt,
		JSON:   true,
	})
	if err != nil {
		return prospector.CompanyProfile{}, nil, err
	}
	if !ok || profile.Validate() != nil {
		return prospector.CompanyProfile{}, nil,
			prospector.Errorf(prospector.ENOTFOUND, "could not identify the company behind %s", collection)
	}
	return profile, app, nil
}

// people extracts the company roster, verifies each person's affiliation,
// and summarizes what each person does. Every step here degrades gracefully:
// an unparseable roster means no people, a failed check keeps the person.
func (p *Pipeline) people(ctx context.Context, collection, company string, app *appendix) ([]prospector.Person, error) {
	matches, err := p.query(ctx, collection, fmt.Sprintf("Who is on the %s team?", company),
		&prospector.QueryFilter{PeopleLikely: true})
	if err != nil {
		return nil, err
	}
	app.add(matches)

	prompt := fmt.Sprintf(`Using only the context below, list the people who work at %s.

<context>
%s
</context>

Respond with a JSON array of objects with string fields "name" and "title". Return an empty array if the context names no people.`, company, contextFromMatches(matches))

	roster, ok, err := generateParsed[[]rosterEntry](ctx, p.Generator, prospector.GenerateRequest{
		Prompt: prompt,
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var people []prospector.Person
	for _, entry := range roster {
		if strings.TrimSpace(entry.Name) == "" {
			continue
		}
		member, err := p.checkAffiliation(ctx, collection, entry.Name, company, app)
		if err != nil {
			return nil, err
		}
		if !member {
			continue
		}

		summary, err := p.personSummary(ctx, collection, entry.Name, company, app)
		if err != nil {
			return nil, err
		}

		people = append(people, prospector.Person{
			Name:    entry.Name,
			Title:   entry.Title,
			Summary: summary,
		})
	}
	return people, nil
}

// checkAffiliation verifies that a person named in the roster actually works
// at the company. An unparseable answer keeps the person.
func (p *Pipeline) checkAffiliation(ctx context.Context, collection, person, company string, app *appendix) (bool, error) {
	matches, err := p.query(ctx, collection, fmt.Sprintf("Is %s on the team at %s?", person, company),
		&prospector.QueryFilter{PeopleLikely: true})
	if err != nil {
		return false, err
	}
	app.add(matches)

	prompt := fmt.Sprintf(`Using only the context below, determine whether %s currently works at %s.

<context>
%s
</context>

Respond with a JSON object with a single boolean field "member".`, person, company, contextFromMatches(matches))

	result, ok, err := generateParsed[membership](ctx, p.Generator, prospector.GenerateRequest{
		Prompt: prompt,
		JSON:   true,
	})
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return result.Member, nil
}

// personSummary answers what a person does at the company. Failures yield an
// empty summary rather than dropping the person.
func (p *Pipeline) personSummary(ctx context.Context, collection, person, company string, app *appendix) (string, error) {
	question := fmt.Sprintf("What does %s do at %s?", person, company)
	matches, err := p.query(ctx, collection, question, &prospector.QueryFilter{PeopleLikely: true})
	if err != nil {
		return "", err
	}
	app.add(matches)

	answer, err := p.Generator.Generate(ctx, prospector.GenerateRequest{
		System: qaSystem,
		Prompt: fmt.Sprintf("<context>\n%s\n</context>\n\nQuestion: %s", contextFromMatches(matches), question),
	})
	if err != nil {
		p.logger().Warn("person summary failed", "person", person, "err", err)
		return "", nil
	}
	return strings.TrimSpace(answer), nil
}

// strategy synthesizes the sales strategy from the run's company
// description, the target's profile, and its roster.
func (p *Pipeline) strategy(ctx context.Context, sellerDescription string, profile prospector.CompanyProfile, people []prospector.Person) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Our company: %s\n\n", sellerDescription)
	fmt.Fprintf(&sb, "Target company: %s\n", profile.Name)
	if profile.Summary != "" {
		fmt.Fprintf(&sb, "What they do: %s\n", profile.Summary)
	}
	if profile.Mission != "" {
		fmt.Fprintf(&sb, "Their mission: %s\n", profile.Mission)
	}
	if len(people) > 0 {
		sb.WriteString("\nKey people:\n")
		for _, person := range people {
			fmt.Fprintf(&sb, "- %s", person.Name)
			if person.Title != "" {
				fmt.Fprintf(&sb, ", %s", person.Title)
			}
			if person.Summary != "" {
				fmt.Fprintf(&sb, ": %s", person.Summary)
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nWrite a sales strategy for approaching the target company with our offering. ")
	sb.WriteString("Recommend who to contact first and what angle to lead with. ")
	sb.WriteString("Respond with an HTML fragment using <h3>, <p>, <ul> and <li> tags only. Do not include <html> or <body> tags.")

	raw, err := p.Generator.Generate(ctx, prospector.GenerateRequest{
		System: strategySystem,
		Prompt: sb.String(),
	})
	if err != nil {
		return "", err
	}

	strategy := prospector.StripCodeFences(raw)
	if strings.TrimSpace(strategy) == "" {
		return "", prospector.Errorf(prospector.EINTERNAL, "strategy generation returned no content")
	}
	return strategy, nil
}

// query runs a filtered nearest-neighbor query, falling back to an
// unfiltered one when the filter leaves nothing.
func (p *Pipeline) query(ctx context.Context, collection, text string, filter *prospector.QueryFilter) ([]prospector.Match, error) {
	matches, err := p.Index.Query(ctx, collection, text, filter, prospector.DefaultTopK)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 && filter != nil {
		return p.Index.Query(ctx, collection, text, nil, prospector.DefaultTopK)
	}
	return matches, nil
}

// contextFromMatches joins match texts into a retrieval context block.
func contextFromMatches(matches []prospector.Match) string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return strings.Join(texts, "\n---\n")
}

// generateParsed runs a generation call and strictly parses the response as
// T. A response that fails to parse is repaired once by re-prompting with
// the parse error; if the repaired response still fails, the value is
// reported absent (ok == false) rather than as an error.
func generateParsed[T any](ctx context.Context, g prospector.Generator, req prospector.GenerateRequest) (T, bool, error) {
	var zero T

	raw, err := g.Generate(ctx, req)
	if err != nil {
		return zero, false, err
	}
	v, perr := prospector.ParseJSON[T](raw)
	if perr == nil {
		return v, true, nil
	}

	repair := req
	repair.Prompt = fmt.Sprintf(`Your previous response could not be parsed: %v

Previous response:
%s

Original request:
%s

Respond again with only the requested JSON document and nothing else.`, perr, raw, req.Prompt)

	raw, err = g.Generate(ctx, repair)
	if err != nil {
		return zero, false, err
	}
	v, perr = prospector.ParseJSON[T](raw)
	if perr != nil {
		return zero, false, nil
	}
	return v, true, nil
}
