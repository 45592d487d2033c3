package schedule

import (
	"fmt"
	"strings"
	"time"
)

// promptTemplate pins the exact three-column pipe format ParseTable
// expects: a header line, a separator line, then data rows.
const promptTemplate = `Create a detailed breakdown of the %s - '%s' with subtopics.
Assign estimated durations to each subtopic, and create a schedule to complete it between %s and %s.
Check the available slots - %s for the day.

Here are some relevant resources:
%s

Format the output as a table with exactly 3 columns:
1. Subtopic: The name of the subtopic.
2. Duration: The estimated duration (e.g., 30 minutes, 1 hour).
3. Suggested Time Slot: A suggested time slot (e.g., 10:00 AM - 10:30 AM).

Separate columns using the '|' symbol. For example:
Subtopic | Duration | Suggested Time Slot
---------|----------|--------------------
Introduction | 30 minutes | 10:00 AM - 10:30 AM
Practice Problems | 1 hour | 10:30 AM - 11:30 AM
Review | 30 minutes | 11:30 AM - 12:00 PM`

// PromptInput carries everything embedded into a generation prompt.
type PromptInput struct {
	Category       string
	TaskTitle      string
	FromDate       time.Time
	DueDate        time.Time
	AvailableSlots []string
	SearchSnippets []string
}

// BuildPrompt renders the deterministic generation prompt. The same
// input always yields the same prompt text.
func BuildPrompt(in PromptInput) string {
	slots := "none"
	if len(in.AvailableSlots) > 0 {
		slots = strings.Join(in.AvailableSlots, ", ")
	}
	snippets := "none"
	if len(in.SearchSnippets) > 0 {
		snippets = strings.Join(in.SearchSnippets, "\n")
	}
	return fmt.Sprintf(promptTemplate,
		in.Category,
		in.TaskTitle,
		in.FromDate.Format("2006-01-02"),
		in.DueDate.Format("2006-01-02"),
		slots,
		snippets,
	)
}
