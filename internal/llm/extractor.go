package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes a structured extraction task.
type ExtractionSchema struct {
	Name        string
	Description string // instructions placed before the output shape
	Fields      []SchemaField
}

// SchemaField is one key of the expected JSON object.
type SchemaField struct {
	Name        string
	Type        string // type hint shown to the model, e.g. "string"
	Description string
	Required    bool
}

// BuildExtractionPrompt renders schema and the input text into one prompt.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		fmt.Fprintf(&sb, "  %q: %s", field.Name, typeHint)
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
	sb.WriteString("Use an empty string for anything the text does not state. Do not invent values.\n\n")
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// JobPostingSchema pulls the tracker fields of an application out of a
// fetched job posting.
func JobPostingSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobPosting",
		Description: "You read job postings and fill in a job application tracker. Copy names and titles exactly as written.",
		Fields: []SchemaField{
			{Name: "company_name", Description: "Hiring company", Required: true},
			{Name: "job_title", Description: "Role title as posted", Required: true},
			{Name: "location", Description: "City, country or Remote"},
			{Name: "industry", Description: "Industry of the hiring company, e.g. Fintech, Healthcare"},
			{Name: "company_size", Description: "One of: Startup (1-50), Small (51-200), Medium (201-1000), Large (1001-5000), Enterprise (5000+)"},
		},
	}
}
