package composer

import (
	"fmt"
	"strings"
)

type formatSection struct {
	Heading     string
	Description string
}

type noteFormat struct {
	Name     string
	Sections []formatSection
	Example  string
}

// knownFormats are the structured note layouts the composer can expand into
// detailed section instructions. Anything else is treated as a custom format
// and passed through untouched.
var knownFormats = map[string]noteFormat{
	"SOAP": {
		Name: "SOAP",
		Sections: []formatSection{
			{"Subjective", "What the client reported in their own experience: presenting concerns, feelings, symptoms and relevant history as described by the client during the session."},
			{"Objective", "Observable, measurable facts: appearance, affect, behavior, mental status observations, and anything the therapist directly witnessed rather than was told."},
			{"Assessment", "The therapist's clinical interpretation: progress toward goals, symptom changes, diagnostic impressions, and how the subjective and objective findings fit together."},
			{"Plan", "Next steps: planned interventions, homework, referrals, scheduling, and any changes to the treatment approach going forward."},
		},
		Example: "Subjective: Client reported increased anxiety at work this week, rating it 7/10.\nObjective: Client appeared restless, spoke rapidly, and wrung hands throughout the session.\nAssessment: Anxiety symptoms have intensified since the last session, likely related to the upcoming performance review.\nPlan: Continue weekly CBT sessions; client will practice the breathing exercise daily and log triggers.",
	},
	"DAP": {
		Name: "DAP",
		Sections: []formatSection{
			{"Data", "Everything observed and reported in the session: client statements, behaviors, affect, and the interventions used, without interpretation."},
			{"Assessment", "The therapist's clinical judgment about the data: response to interventions, progress, risk considerations and diagnostic impressions."},
			{"Plan", "What happens next: session frequency, homework, planned focus for the next session, and any referrals."},
		},
		Example: "Data: Client described conflict with partner and reported sleeping 4-5 hours per night. Therapist introduced thought records.\nAssessment: Client engaged well with the cognitive work; sleep disruption appears stress-related rather than chronic.\nPlan: Complete one thought record daily; review at next weekly session.",
	},
	"BIRP": {
		Name: "BIRP",
		Sections: []formatSection{
			{"Behavior", "The client's presentation and behavior in session: statements, affect, appearance, and symptoms as observed or reported."},
			{"Intervention", "What the therapist did: techniques applied, topics of focus, and therapeutic approach used during the session."},
			{"Response", "How the client responded to the interventions: engagement, insight, resistance, and any in-session change."},
			{"Plan", "Next steps for treatment: homework, the focus of the next session, and schedule."},
		},
		Example: "Behavior: Client arrived on time and reported persistent low mood, tearful when discussing job loss.\nIntervention: Therapist used behavioral activation, collaboratively building an activity schedule.\nResponse: Client was initially reluctant but identified three valued activities by end of session.\nPlan: Client will complete two scheduled activities before the next weekly session.",
	},
	"GIRP": {
		Name: "GIRP",
		Sections: []formatSection{
			{"Goal", "The treatment goal this session addressed, stated in terms of the client's treatment plan."},
			{"Intervention", "The techniques and approaches the therapist used in the session to work toward that goal."},
			{"Response", "The client's response to those interventions, including engagement and measurable progress."},
			{"Plan", "Next steps: homework, adjustments to the approach, and the plan for upcoming sessions."},
		},
		Example: "Goal: Reduce panic attack frequency from daily to fewer than two per week.\nIntervention: Therapist conducted interoceptive exposure and reviewed the panic cycle.\nResponse: Client tolerated exposure exercises with moderate anxiety and reported increased confidence.\nPlan: Continue exposure hierarchy; client will practice twice before next session.",
	},
	"PIRP": {
		Name: "PIRP",
		Sections: []formatSection{
			{"Problem", "The presenting problem addressed this session, framed clinically and tied to the reason for treatment."},
			{"Intervention", "What the therapist did to address the problem: techniques, guidance, and focus of the therapeutic work."},
			{"Response", "The client's response to the interventions: engagement, insight, affect shifts, and progress indicators."},
			{"Plan", "The plan going forward: homework, next session focus, frequency, and any referrals."},
		},
		Example: "Problem: Client continues to experience work-related anxiety with avoidance of team meetings.\nIntervention: Therapist used cognitive restructuring targeting catastrophic predictions about evaluation.\nResponse: Client generated balanced alternative thoughts and agreed the feared outcome was unlikely.\nPlan: Client will attend one team meeting this week and record predictions versus outcomes.",
	},
}

// expandFormat renders the deterministic instruction block for a known
// format: name, ordered headings, per-heading description, one worked example.
func expandFormat(f noteFormat) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Write the note using the %s format.\n", f.Name))
	b.WriteString("Required sections, in this exact order:\n")
	for i, s := range f.Sections {
		b.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, s.Heading, s.Description))
	}
	b.WriteString("\nExample of a complete note in this format:\n")
	b.WriteString(f.Example)
	b.WriteString("\n")

	return b.String()
}

// KnownFormat reports whether name is a structured layout the composer expands.
func KnownFormat(name string) bool {
	_, ok := knownFormats[strings.ToUpper(name)]
	return ok
}
