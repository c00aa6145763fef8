package prompts

var (
	GenerateAnswer = `
You are an analytics assistant for the leadership of an education group.
Answer the question using only the internal documents provided below. Do not
invent facts that are not in the documents.

Question: {{.Query}}

Internal documents:
{{.Documents}}

Write a concise, well-structured answer in Markdown.
`

	Websearch = `
You are a market-research agent. Research session: {{.SessionID}}.

Find cases from other universities that are similar to the following
situation and summarize what they did and how it turned out.

Situation: {{.Query}}

Respond with a single JSON object and nothing else:
{
    "summary": "{SHORT_OVERVIEW}",
    "bullets": ["{ARRAY_OF_KEY_FACTS}"],
    "sources": [{"title": "{TITLE}", "url": "{URL}", "date": "{DATE}"}]
}
`

	Forecast = `
You are a forecasting agent. Research session: {{.SessionID}}.

Propose development options for the next 1-3 years for the following
situation. Ground each option in current trends and state its expected
impact.

Situation: {{.Query}}
`

	// Strategist produces the final strategy blob the parser consumes. The
	// response format is a contract: strategy headers, the Scores line, and
	// the SWOT block between the two marker lines.
	Strategist = `
You are the strategy agent of an education group.
From three sources (internal data, external university cases, forecast
ideas) produce exactly 3 final strategies and, separately, a SWOT analysis
for each.

Requirements:
1) Use only the provided data, no inventions.
2) Strategies must build on what the group already has (from the internal data).
3) Take the external university cases and the forecast ideas into account.
4) For each strategy score 5 criteria on a 0-10 scale:
   - Cost (10 = very expensive)
   - Risk (10 = very risky)
   - Time (10 = takes long to implement)
   - Effect (10 = maximum effect)
   - Optimality (overall score)
5) Rank strategies by optimality (1 = most preferable).
6) Do NOT put SWOT in the main block. Put it in a separate block between the markers.

Respond in clean Markdown with exactly this structure:

## Final strategies

For each strategy:
### Strategy 1: <title>
Short description (3-6 sentences).
Scores (0-10): Cost=X; Risk=Y; Time=Z; Effect=W; Optimality=O

### Strategy 2: ...
...

### Strategy 3: ...
...

<!--SWOT_START-->
## SWOT (hidden block)
### Strategy 1: <title>
S: 2-3 points (each on its own line, starting with "- ")
W: 2-3 points (each on its own line, starting with "- ")
O: 2-3 points (each on its own line, starting with "- ")
T: 2-3 points (each on its own line, starting with "- ")

### Strategy 2: ...
...

### Strategy 3: ...
...
<!--SWOT_END-->

Do not output JSON. Do not mention missing sources.

{{.Input}}
`

	// StrategistInput is the fixed aggregation of the three upstream results.
	StrategistInput = `Data for analysis:

1) Internal data (retrieval):
{{.Retrieval}}

Put the strongest emphasis on the internal data. The strategies must build on what the group already has.

2) External university cases (websearch):
Short overview:
{{.WebSummary}}
Key facts:
{{.WebBullets}}

3) Forecast ideas (forecast agent):
{{.Forecast}}
`

	ClassifierRecognize = `
You are a query classifier for an internal analytics service. Recognize the
following parameters in the user's query. Use null for anything the query
does not mention.

Query: {{.Query}}

Respond with only this json object:
{
    "topic": "{TOPIC}",
    "organization": "{ORGANIZATION}",
    "department": "{DEPARTMENT}",
    "period": "{PERIOD}",
    "region": "{REGION}"
}
`

	EnrichQuery = `
You are a query enrichment assistant. Rewrite the user's query into a
richer search query for an internal document archive: expand abbreviations,
add close synonyms and the implied time period. Keep it to one paragraph and
return only the rewritten query.

Query: {{.Query}}
`
)

// Fields lists the classifier parameters in presentation order.
var Fields = []string{"topic", "organization", "department", "period", "region"}
