// Package beepa holds the static BEEPA 90-day reform framework: the 7
// standardized reforms and their weighted activities that every MDA is
// tracked against. The template is the single source of the weight
// invariant (activity weights sum to 1.0 within each reform), asserted at
// startup and in tests rather than on every score computation.
package beepa

import (
	"fmt"
	"math"
)

// ActivityTemplate describes one weighted activity within a reform.
type ActivityTemplate struct {
	Ref    string
	Name   string
	Weight float64
}

// ReformTemplate describes one of the 7 standardized reforms.
type ReformTemplate struct {
	RefNumber  int
	Name       string
	Activities []ActivityTemplate
}

// Reforms is the standardized framework applied to every MDA.
var Reforms = []ReformTemplate{
	{
		RefNumber: 1,
		Name:      "Clear, Competitive & Public Service Level Agreements (SLAs)",
		Activities: []ActivityTemplate{
			{Ref: "1.1", Name: "Compile comprehensive list of MDA services with SLAs", Weight: 0.10},
			{Ref: "1.2", Name: "Decompose SLAs (timelines, cost, documents, process)", Weight: 0.15},
			{Ref: "1.3", Name: "Map user journey & identify friction points", Weight: 0.15},
			{Ref: "1.4", Name: "Conduct SLA vs practice gap analysis", Weight: 0.20},
			{Ref: "1.5", Name: "Benchmark SLAs against comparator countries", Weight: 0.15},
			{Ref: "1.6", Name: "Redesign SLAs for competitiveness", Weight: 0.10},
			{Ref: "1.7", Name: "Management approval of revised SLAs", Weight: 0.10},
			{Ref: "1.8", Name: "Public publication of approved SLAs", Weight: 0.05},
		},
	},
	{
		RefNumber: 2,
		Name:      "End-to-End Transparency in Government Services",
		Activities: []ActivityTemplate{
			{Ref: "2.1", Name: "Functional official website exists and is publicly accessible", Weight: 0.05},
			{Ref: "2.2", Name: "Services and scope of the MDA clearly listed on the website", Weight: 0.05},
			{Ref: "2.3", Name: "Requirements and eligibility criteria for each service clearly stated", Weight: 0.10},
			{Ref: "2.4", Name: "Step-by-step procedures for each service clearly outlined", Weight: 0.10},
			{Ref: "2.5", Name: "Very detailed and service-specific FAQ publicly available", Weight: 0.05},
			{Ref: "2.6", Name: "Costs for each service clearly indicated with no hidden charges", Weight: 0.15},
			{Ref: "2.7", Name: "Functional customer service email address publicly listed", Weight: 0.05},
			{Ref: "2.8", Name: "Functional customer service phone numbers publicly listed (multiple where applicable)", Weight: 0.10},
			{Ref: "2.9", Name: "Online application process available for all applicable services", Weight: 0.10},
			{Ref: "2.10", Name: "Approvals / facilities granted online without mandatory physical visits", Weight: 0.15},
			{Ref: "2.11", Name: "ReportGov.ng linked on the MDA website for complaints and feedback", Weight: 0.10},
		},
	},
	{
		RefNumber: 3,
		Name:      "Default Approval for Service Timelines",
		Activities: []ActivityTemplate{
			{Ref: "3.1", Name: "Define Default Approval trigger points and embed in SLAs", Weight: 0.15},
			{Ref: "3.2", Name: "Establish applicant notification process", Weight: 0.15},
			{Ref: "3.3", Name: "Internal notification & escalation to Head of Agency", Weight: 0.15},
			{Ref: "3.4", Name: "Define Default Approval authority, SOP & responsible unit", Weight: 0.20},
			{Ref: "3.5", Name: "Execute and evidence Default Approval (test/live cases)", Weight: 0.20},
			{Ref: "3.6", Name: "Monthly Default Approval reporting to PEBEC", Weight: 0.15},
		},
	},
	{
		RefNumber: 4,
		Name:      "One Government Service Delivery Model",
		Activities: []ActivityTemplate{
			{Ref: "4.1", Name: "Identify inter-agency approval dependencies", Weight: 0.15},
			{Ref: "4.2", Name: "Develop inter-agency dependency maps", Weight: 0.15},
			{Ref: "4.3", Name: "Designate Lead MDA for dependent services", Weight: 0.15},
			{Ref: "4.4", Name: "Agree inter-agency workflow", Weight: 0.15},
			{Ref: "4.5", Name: "Align inter-agency SLAs (timelines, escalation, default approval)", Weight: 0.20},
			{Ref: "4.6", Name: "Execute inter-agency MoUs", Weight: 0.20},
		},
	},
	{
		RefNumber: 5,
		Name:      "Regulatory Impact Analysis Implementation",
		Activities: []ActivityTemplate{
			{Ref: "5.1", Name: "Comprehensive Regulatory Baseline of all existing regulatory instruments", Weight: 0.30},
			{Ref: "5.2", Name: "Submission of all regulatory instruments and validation by PEBEC", Weight: 0.15},
			{Ref: "5.3", Name: "A Four-Tier Regulatory Prioritization of existing regulatory instruments", Weight: 0.25},
			{Ref: "5.4", Name: "Identification of Regulations for Ex-Post RIA", Weight: 0.30},
		},
	},
	{
		RefNumber: 6,
		Name:      "Regulatory Overlap Reduction & Role Clarity",
		Activities: []ActivityTemplate{
			{Ref: "6.1", Name: "Map services, approvals, inspections within each cluster", Weight: 0.10},
			{Ref: "6.2", Name: "Identify overlapping functions by service", Weight: 0.10},
			{Ref: "6.3", Name: "Categorize overlap type (regulatory / operational / data / procedural)", Weight: 0.10},
			{Ref: "6.4", Name: "Identify legal basis for each overlapping function", Weight: 0.20},
			{Ref: "6.5", Name: "Propose resolution option per overlap (lead agency, joint inspection, mutual recognition, data reuse)", Weight: 0.15},
			{Ref: "6.6", Name: "Agree lead MDA or coordination model", Weight: 0.15},
			{Ref: "6.7", Name: "Issue inter-agency MoUs or circulars formalizing resolutions", Weight: 0.10},
			{Ref: "6.8", Name: "Publish role clarity notes for users", Weight: 0.10},
		},
	},
	{
		RefNumber: 7,
		Name:      "Digital Service Transparency & Online Access",
		Activities: []ActivityTemplate{
			{Ref: "7.1", Name: "Responsive design across Mobile, Tablet, and Desktop", Weight: 0.25},
			{Ref: "7.2", Name: "Payment integration where applicable", Weight: 0.15},
			{Ref: "7.3", Name: "Social media integration", Weight: 0.10},
			{Ref: "7.4", Name: "Multilingual support where applicable", Weight: 0.10},
			{Ref: "7.5", Name: "SEO Optimization", Weight: 0.25},
			{Ref: "7.6", Name: "Clear mandate, leadership information, organogram must be publicly available on the website", Weight: 0.15},
		},
	},
}

// weightTolerance absorbs decimal representation error in the template.
const weightTolerance = 1e-9

// Validate checks the framework invariants: 7 reforms numbered 1-7, every
// activity weight in [0,1], and weights summing to 1.0 per reform. Called at
// server startup so a bad template edit fails fast instead of silently
// skewing every score.
func Validate() error {
	if len(Reforms) != 7 {
		return fmt.Errorf("beepa: framework must define 7 reforms, has %d", len(Reforms))
	}
	for i, reform := range Reforms {
		if reform.RefNumber != i+1 {
			return fmt.Errorf("beepa: reform %q has ref number %d, want %d", reform.Name, reform.RefNumber, i+1)
		}
		if len(reform.Activities) == 0 {
			return fmt.Errorf("beepa: reform %d has no activities", reform.RefNumber)
		}
		var sum float64
		for _, a := range reform.Activities {
			if a.Weight < 0 || a.Weight > 1 {
				return fmt.Errorf("beepa: activity %s weight %v out of range", a.Ref, a.Weight)
			}
			sum += a.Weight
		}
		if math.Abs(sum-1.0) > weightTolerance {
			return fmt.Errorf("beepa: reform %d activity weights sum to %v, want 1.0", reform.RefNumber, sum)
		}
	}
	return nil
}

// TotalActivities returns the number of activities across the framework.
func TotalActivities() int {
	n := 0
	for _, r := range Reforms {
		n += len(r.Activities)
	}
	return n
}
