// Package feedback implements the submission workflow: converting one
// student's answer batch into per-department counter increments plus the
// authoritative submitted-flag update, and the read-only roster and
// aggregate queries backing the admin dashboard.
package feedback

import (
	"strconv"

	"github.com/nptc-feedback/backend/internal/shared"
)

// Question is one survey question. IDs are 1-based within a section.
type Question struct {
	ID      int
	Text    string
	Section string
}

// sectionPrefixes maps a section to the letter prefix of its question codes.
// A5 is the fifth facilities question, B2 the second participation question.
var sectionPrefixes = map[string]string{
	shared.SectionFacilities:     "A",
	shared.SectionParticipation:  "B",
	shared.SectionAccomplishment: "C",
}

// QuestionCode derives the counter-row key for a section and 1-based
// question id. Unknown sections yield "", which callers treat as an answer
// to skip rather than an error.
func QuestionCode(section string, questionID int) string {
	prefix, ok := sectionPrefixes[section]
	if !ok {
		return ""
	}
	return prefix + strconv.Itoa(questionID)
}

// FacilityQuestions covers campus facilities and services.
var FacilityQuestions = []Question{
	{1, "Infrastructure Facility", shared.SectionFacilities},
	{2, "Library Facility", shared.SectionFacilities},
	{3, "Drinking Water Facility", shared.SectionFacilities},
	{4, "Canteen Facility", shared.SectionFacilities},
	{5, "Transport Facility", shared.SectionFacilities},
	{6, "Sport Facility", shared.SectionFacilities},
	{7, "Internet Facility", shared.SectionFacilities},
	{8, "Hostel Facility", shared.SectionFacilities},
	{9, "Banking Facility/ATM", shared.SectionFacilities},
	{10, "Quality of Teaching and Learning", shared.SectionFacilities},
	{11, "Laboratory Facilities", shared.SectionFacilities},
	{12, "Industrial Visit", shared.SectionFacilities},
	{13, "Guest Lecture", shared.SectionFacilities},
	{14, "Career Guidance / Placement Training", shared.SectionFacilities},
	{15, "Campus Environment", shared.SectionFacilities},
	{16, "Toilet Facility (Cleanliness)", shared.SectionFacilities},
	{17, "Stationary Store Facility", shared.SectionFacilities},
	{18, "Medical Health Centre", shared.SectionFacilities},
	{19, "Fitness Centre Facility", shared.SectionFacilities},
	{20, "Meditation / Yoga Centre Facility", shared.SectionFacilities},
	{21, "Industrial Collaboration (MoU)", shared.SectionFacilities},
	{22, "College Office for Information", shared.SectionFacilities},
	{23, "Availability of Scholarship Facilities", shared.SectionFacilities},
	{24, "Parking Facilities", shared.SectionFacilities},
}

// ParticipationQuestions cover campus-life participation.
var ParticipationQuestions = []Question{
	{1, "Did you participate in Sports events?", shared.SectionParticipation},
	{2, "Did you participate in Seminar?", shared.SectionParticipation},
	{3, "Did you participate in Workshop?", shared.SectionParticipation},
	{4, "Did you do any Industry Project?", shared.SectionParticipation},
	{5, "Are you a member of the Students Guild of Service (SGS)?", shared.SectionParticipation},
	{6, "Are you an NSS Volunteer?", shared.SectionParticipation},
	{7, "Have you received any scholarships during the study?", shared.SectionParticipation},
	{8, "Did you attend any certified courses inside the campus?", shared.SectionParticipation},
	{9, "Did you attend any awareness program?", shared.SectionParticipation},
}

// AccomplishmentQuestions cover program outcomes.
var AccomplishmentQuestions = []Question{
	{1, "Basic and discipline specific knowledge", shared.SectionAccomplishment},
	{2, "Problem analysis", shared.SectionAccomplishment},
	{3, "Design/development of solutions", shared.SectionAccomplishment},
	{4, "Engineering tools, experimentation and testing", shared.SectionAccomplishment},
	{5, "Engineering practices for society, sustainability and environment", shared.SectionAccomplishment},
	{6, "Project management", shared.SectionAccomplishment},
	{7, "Life-long learning", shared.SectionAccomplishment},
	{8, "Program Specific Outcome (PSO1)", shared.SectionAccomplishment},
	{9, "Program Specific Outcome (PSO2)", shared.SectionAccomplishment},
}

// AllQuestions returns the full survey in section order.
func AllQuestions() []Question {
	all := make([]Question, 0, len(FacilityQuestions)+len(ParticipationQuestions)+len(AccomplishmentQuestions))
	all = append(all, FacilityQuestions...)
	all = append(all, ParticipationQuestions...)
	all = append(all, AccomplishmentQuestions...)
	return all
}

// AllQuestionCodes returns every question code in the survey. The seeder
// uses this to initialize counter rows per department.
func AllQuestionCodes() []string {
	questions := AllQuestions()
	codes := make([]string, 0, len(questions))
	for _, q := range questions {
		codes = append(codes, QuestionCode(q.Section, q.ID))
	}
	return codes
}
