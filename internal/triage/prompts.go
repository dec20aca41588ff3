package triage

import (
	"github.com/tmc/langchaingo/prompts"

	"github.com/animalrescue/rescue-connect/internal/ai/schema"
)

const urgencyPrompt = `You are an AI assistant helping an animal rescue NGO prioritize incoming reports.

Based on the animal condition report, location details, and reporter contact information, determine if the report needs immediate human attention.

Condition Report: {{.conditionReport}}
Location Details: {{.locationDetails}}
Reporter Contact: {{.reporterContact}}

Consider factors such as the severity of the condition, the accessibility of the location, and the availability of contact information.

Output a JSON object with exactly two fields: "needsHumanAttention" set to true if the report requires immediate action and false otherwise, and "reason" with a brief justification of your assessment.
`

var urgencyTemplate = prompts.NewPromptTemplate(
	urgencyPrompt,
	[]string{"conditionReport", "locationDetails", "reporterContact"},
)

// VerdictSchema is the structured reply requested from the backend.
var VerdictSchema = &schema.Object{
	Name: "urgency_verdict",
	Fields: []schema.Field{
		{Name: "needsHumanAttention", Type: schema.Bool, Description: "Whether the report needs immediate human attention."},
		{Name: "reason", Type: schema.String, Description: "The reason for the urgency assessment."},
	},
}

// RenderPrompt embeds the request fields verbatim into the urgency prompt.
func RenderPrompt(req Request) (string, error) {
	return urgencyTemplate.Format(map[string]any{
		"conditionReport": req.ConditionReport,
		"locationDetails": req.LocationDetails,
		"reporterContact": req.ReporterContact,
	})
}
