package pipeline

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/dvloznov/vendorscope/internal/domain"
)

// Prompt templates are kept as data so they can be reviewed and versioned
// independently of the call logic. Each render function is a pure function
// from typed input to the request string.

const queryTemplateText = `Generate a search query to find what services {{.VendorName}} provides.`

const summaryTemplateText = `Analyze the search results about a vendor and infer the core services they provide.
Focus on identifying patterns, key offerings, and the primary value proposition, not just summarizing the text.
Avoid mentioning the vendor's name. Be concise and descriptive in one sentence.

Search Results:
{{.SearchResults}}

Description of Services:`

const classificationTemplateText = `Objective:
Analyze the following vendor service description and any other relevant context to determine the most appropriate departmental category.
Focus on the core function of the service, not the vendor's name.

Service Description: {{.ServiceDescription}}

Available Categories: {{.Departments}}

Guidelines:
- Choose the category that best aligns with the primary purpose of the service.
- If the service spans multiple departments, pick the one it most directly supports.
- Return only the category name, without explanations or extra text.

Answer:`

const recommendationTemplateText = `Objective:
Analyze the vendor portfolio holistically and recommend the best action for
{{.VendorName}} based on strategic alignment, cost efficiency, and redundancy.

Input Data:
- Full Vendor Portfolio: {{.VendorSummary}}
- Target Vendor: {{.VendorName}}
- Spend: ${{.Amount}}
- Category: {{.Category}}
- Service Description: {{.Description}}

Evaluation Criteria:
1. Duplicates/Overlaps: Does another vendor provide the same or similar service?
2. Spend Efficiency: Is the cost justified relative to value?
3. Portfolio Fit: Does this vendor align with long-term needs?

Possible Actions:
- optimize (Renegotiate terms, improve efficiency)
- consolidate: [Vendor Name] (Merge with a specific vendor; must specify)
- terminate (Discontinue due to irrelevance to business operations, redundancy or low value)

Rules:
- Return ONLY the action in the exact format:
- optimize
- consolidate: [Vendor Name]
- terminate
- Never add explanations or deviations.

Example Outputs:
- "consolidate: AWS"
- "terminate"
- "optimize"

Recommendation for {{.VendorName}}:`

const opportunityTemplateText = `Analyze the vendor dataset holistically and identify the TOP 3 cost-saving opportunities with the highest potential impact.
Evaluate each opportunity using these criteria in order of priority:

1. Potential savings magnitude (prioritize highest $ impact)
2. Service/category redundancy (overlap with other vendors)
3. Strategic alignment (low-value or non-core services)

Input Data:
{{.VendorActions}}

Required Output Format:
- Strictly CSV format with EXACTLY these columns: "Vendor name","Recommended action","Explanation"
- Each explanation must include:
  Specific $ impact potential (estimate if exact unavailable)
  Clear redundancy/overlap evidence (if applicable)
  Strategic rationale

Rules:
- Output ONLY valid CSV data - no headers, titles, or explanations
- Never use markdown code blocks or quotes around the whole output
- Limit the output to only the TOP 3
- If fewer than 3 opportunities exist, leave remaining rows empty

Example Output:
"Acme Corp","consolidate: XYZ Inc","$250K potential savings, duplicate CRM tools"
"Beta LLC","terminate","$180K savings, non-core legal service"
"Gamma Inc","optimize","$90K via contract renegotiation"`

var (
	queryTemplate          = template.Must(template.New("query").Parse(queryTemplateText))
	summaryTemplate        = template.Must(template.New("summary").Parse(summaryTemplateText))
	classificationTemplate = template.Must(template.New("classification").Parse(classificationTemplateText))
	recommendationTemplate = template.Must(template.New("recommendation").Parse(recommendationTemplateText))
	opportunityTemplate    = template.Must(template.New("opportunity").Parse(opportunityTemplateText))
)

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return b.String(), nil
}

func renderQueryPrompt(vendorName string) (string, error) {
	return render(queryTemplate, struct{ VendorName string }{vendorName})
}

func renderSummaryPrompt(searchResults string) (string, error) {
	return render(summaryTemplate, struct{ SearchResults string }{searchResults})
}

func renderClassificationPrompt(serviceDescription string) (string, error) {
	return render(classificationTemplate, struct {
		ServiceDescription string
		Departments        string
	}{
		ServiceDescription: serviceDescription,
		Departments:        strings.Join(domain.Departments(), ", "),
	})
}

func renderRecommendationPrompt(vendorSummary string, rec domain.VendorRecord) (string, error) {
	return render(recommendationTemplate, struct {
		VendorSummary string
		VendorName    string
		Amount        string
		Category      string
		Description   string
	}{
		VendorSummary: vendorSummary,
		VendorName:    rec.Name,
		Amount:        rec.Amount.String(),
		Category:      rec.Category,
		Description:   rec.Description,
	})
}

func renderOpportunityPrompt(vendorActions string) (string, error) {
	return render(opportunityTemplate, struct{ VendorActions string }{vendorActions})
}

// portfolioSummary renders one line per vendor for the recommendation
// prompt; every per-vendor request carries the full portfolio.
func portfolioSummary(records []domain.VendorRecord) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("%s ($%s, %s): %s", r.Name, r.Amount, r.Category, r.Description)
	}
	return strings.Join(lines, "\n")
}

// vendorActionLines renders one line per vendor for the opportunity prompt.
func vendorActionLines(records []domain.VendorRecord) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("%s ($%s): %s | %s", r.Name, r.Amount, r.Action, r.Description)
	}
	return strings.Join(lines, "\n")
}
