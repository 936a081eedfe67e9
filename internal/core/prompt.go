package core

import (
	"fmt"
)

// UnidentifiedWasteLabel names an image-only item inside prompts
const UnidentifiedWasteLabel = "unidentified waste"

const datePromptFormat = `As a waste management expert, analyze the waste item "%s" and determine the most appropriate disposal date based on environmental guidelines.

Consider the following factors:
- Biodegradability of the material
- Toxicity level and environmental impact
- Current waste management recommendations
- Collection schedules for different waste types
- Seasonal considerations

Today's date is %s.

Reply ONLY with a valid ISO 8601 date string (YYYY-MM-DD) that represents the recommended disposal date for this item.
The date MUST be between %s and %s, based on the waste type.

For example:
- Hazardous waste: Schedule further out (15-30 days)
- Regular recyclables: Schedule within 7 days
- Organic waste: Schedule within 3 days
- E-waste: Schedule for specialized collection days (typically 10-20 days out)

Reply with ONLY the date in YYYY-MM-DD format, nothing else.`

const imageDatePromptFormat = `As a waste management expert, I need to determine the most appropriate disposal date for a waste item.
%s.

Consider the following factors:
- Biodegradability of the material
- Toxicity level and environmental impact
- Current waste management recommendations
- Collection schedules for different waste types
- Seasonal considerations

Today's date is %s.

Reply ONLY with a valid ISO 8601 date string (YYYY-MM-DD) that represents the recommended disposal date for this item.
The date MUST be between %s and %s, based on the waste type.

For example:
- Hazardous waste: Schedule further out (15-30 days)
- Regular recyclables: Schedule within 7 days
- Organic waste: Schedule within 3 days
- E-waste: Schedule for specialized collection days (typically 10-20 days out)

Reply with ONLY the date in YYYY-MM-DD format, nothing else.`

const batchDatePromptFormat = `As a waste management expert, analyze the waste item "%s" and determine the most appropriate disposal date based on environmental guidelines.

Consider the following factors:
- Biodegradability of the material
- Toxicity level and environmental impact
- Current waste management recommendations

Today's date is %s.

Reply ONLY with a valid ISO 8601 date string (YYYY-MM-DD) that represents the recommended disposal date for this item.
The date MUST be between %s and %s, based on the waste type.

Reply with ONLY the date in YYYY-MM-DD format, nothing else.`

const classificationPromptFormat = `As an environmental waste classification expert, provide a detailed analysis for %s.

Reply STRICTLY in this format:

**Waste Type Classification:**
* **Degradable:** [Yes/No] - [concise explanation with scientific basis]
* **Biodegradable:** [Yes/No] - [concise explanation with scientific basis]
* **Non-degradable:** [Yes/No] - [concise explanation with scientific basis]

**Storage and Disposal Instructions:**
* **Storage:** [bullet points with specific storage guidelines]
* **Disposal:** [bullet points with proper disposal methods according to environmental regulations]
* **Possible Recycling Methods:** [bullet points with available recycling options and processes]
* **Resale Value:** [estimate of potential circular economy value or statement of no resale value]

Base all classifications on material composition, environmental impact, and current waste management best practices.`

const strictFormatSuffix = `

IMPORTANT: You MUST follow the EXACT format specified. Environmental assessment accuracy depends on proper formatting.`

// Section headers a classification must contain
const (
	WasteTypeHeader = "**Waste Type Classification:**"
	DisposalHeader  = "**Storage and Disposal Instructions:**"
)

// BuildDatePrompt builds the single-item disposal date prompt
func BuildDatePrompt(window DateWindow, name string, hasImage bool) string {
	today := window.Format(window.Today)
	horizon := window.Format(window.HorizonEnd)
	if hasImage {
		description := "The item is shown in an uploaded image"
		if name != "" && name != UnidentifiedWasteLabel {
			description = fmt.Sprintf("The item is described as %q", name)
		}
		return fmt.Sprintf(imageDatePromptFormat, description, today, today, horizon)
	}
	return fmt.Sprintf(datePromptFormat, name, today, today, horizon)
}

// BuildBatchDatePrompt builds the shorter prompt used for sampled batch rows
func BuildBatchDatePrompt(window DateWindow, name string) string {
	today := window.Format(window.Today)
	return fmt.Sprintf(batchDatePromptFormat, name, today, today, window.Format(window.HorizonEnd))
}

// BuildClassificationPrompt builds the structured classification prompt
func BuildClassificationPrompt(name string, strict bool) string {
	subject := "the item in the image"
	if name != "" {
		subject = fmt.Sprintf("%q", name)
	}
	prompt := fmt.Sprintf(classificationPromptFormat, subject)
	if strict {
		prompt += strictFormatSuffix
	}
	return prompt
}
