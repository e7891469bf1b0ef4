package views

import (
	"fmt"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/ellarises/webapp/internal/repository"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// opts builds select options where value and label coincide.
func opts(values ...string) []option {
	out := make([]option, 0, len(values))
	for _, v := range values {
		out = append(out, option{Value: v, Label: v})
	}
	return out
}

func uuidValue(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// UserList renders the account management screen (manager-only route).
func UserList(p Page, users []repository.User) templ.Component {
	rows := make([]row, 0, len(users))
	for _, u := range users {
		rows = append(rows, row{
			Cells:      []string{u.Username, u.Email, u.Role, u.CreatedAt.Format(dateLayout)},
			EditPath:   "/users/" + u.ID.String() + "/edit",
			DeletePath: "/users/" + u.ID.String() + "/delete",
		})
	}
	return listPage(p, "Users", "/users/new",
		[]string{"Username", "Email", "Role", "Created"}, rows)
}

// UserForm renders the create/edit form for an account.
// u is nil for the create form. The password field is always blank;
// leaving it empty on edit keeps the current password.
func UserForm(p Page, u *repository.User, action string) templ.Component {
	var username, email, role string
	heading := "New User"
	if u != nil {
		heading = "Edit User"
		username, email, role = u.Username, u.Email, u.Role
	}
	return formPage(p, heading, action, []formField{
		{Label: "Username", Name: "username", Type: "text", Value: username},
		{Label: "Email", Name: "email", Type: "email", Value: email},
		{Label: "Password", Name: "password", Type: "password"},
		{Label: "Role", Name: "role", Type: "select", Value: role, Options: opts("user", "manager")},
	})
}

// ParticipantList renders the participant roster.
func ParticipantList(p Page, participants []repository.Participant) templ.Component {
	rows := make([]row, 0, len(participants))
	for _, pt := range participants {
		rows = append(rows, row{
			Cells: []string{pt.FullName(), pt.Email, pt.Phone, pt.Program,
				formatDate(pt.EnrollmentDate)},
			EditPath:   "/participants/" + pt.ID.String() + "/edit",
			DeletePath: "/participants/" + pt.ID.String() + "/delete",
		})
	}
	return listPage(p, "Participants", "/participants/new",
		[]string{"Name", "Email", "Phone", "Program", "Enrolled"}, rows)
}

// ParticipantForm renders the create/edit form for a participant.
func ParticipantForm(p Page, pt *repository.Participant, action string) templ.Component {
	var v repository.Participant
	heading := "New Participant"
	if pt != nil {
		heading = "Edit Participant"
		v = *pt
	}
	return formPage(p, heading, action, []formField{
		{Label: "First name", Name: "first_name", Type: "text", Value: v.FirstName},
		{Label: "Last name", Name: "last_name", Type: "text", Value: v.LastName},
		{Label: "Email", Name: "email", Type: "email", Value: v.Email},
		{Label: "Phone", Name: "phone", Type: "tel", Value: v.Phone},
		{Label: "Program", Name: "program", Type: "text", Value: v.Program},
		{Label: "Enrollment date", Name: "enrollment_date", Type: "date", Value: formatDate(v.EnrollmentDate)},
	})
}

// EventList renders the event calendar.
func EventList(p Page, events []repository.Event) templ.Component {
	rows := make([]row, 0, len(events))
	for _, e := range events {
		rows = append(rows, row{
			Cells:      []string{e.EventName, e.EventType, formatDate(e.EventDate), e.Location},
			EditPath:   "/events/" + e.ID.String() + "/edit",
			DeletePath: "/events/" + e.ID.String() + "/delete",
		})
	}
	return listPage(p, "Events", "/events/new",
		[]string{"Name", "Type", "Date", "Location"}, rows)
}

// EventForm renders the create/edit form for an event.
func EventForm(p Page, e *repository.Event, action string) templ.Component {
	var v repository.Event
	heading := "New Event"
	if e != nil {
		heading = "Edit Event"
		v = *e
	}
	return formPage(p, heading, action, []formField{
		{Label: "Name", Name: "event_name", Type: "text", Value: v.EventName},
		{Label: "Type", Name: "event_type", Type: "text", Value: v.EventType},
		{Label: "Date", Name: "event_date", Type: "date", Value: formatDate(v.EventDate)},
		{Label: "Location", Name: "location", Type: "text", Value: v.Location},
		{Label: "Description", Name: "description", Type: "textarea", Value: v.Description},
	})
}

// SurveyList renders collected survey responses.
func SurveyList(p Page, surveys []repository.Survey) templ.Component {
	rows := make([]row, 0, len(surveys))
	for _, s := range surveys {
		rows = append(rows, row{
			Cells: []string{
				formatDate(s.SurveyDate),
				fmt.Sprintf("%d", s.SatisfactionScore),
				fmt.Sprintf("%d", s.UsefulnessScore),
				fmt.Sprintf("%d", s.RecommendationScore),
				s.Comments,
			},
			EditPath:   "/surveys/" + s.ID.String() + "/edit",
			DeletePath: "/surveys/" + s.ID.String() + "/delete",
		})
	}
	return listPage(p, "Surveys", "/surveys/new",
		[]string{"Date", "Satisfaction", "Usefulness", "Recommendation", "Comments"}, rows)
}

// SurveyForm renders the create/edit form for a survey. Participant and
// event dropdowns are populated from the current records.
func SurveyForm(p Page, s *repository.Survey, participants []repository.Participant, events []repository.Event, action string) templ.Component {
	var v repository.Survey
	heading := "New Survey"
	if s != nil {
		heading = "Edit Survey"
		v = *s
	}

	participantOpts := make([]option, 0, len(participants)+1)
	participantOpts = append(participantOpts, option{Value: "", Label: "—"})
	for _, pt := range participants {
		participantOpts = append(participantOpts, option{Value: pt.ID.String(), Label: pt.FullName()})
	}
	eventOpts := make([]option, 0, len(events)+1)
	eventOpts = append(eventOpts, option{Value: "", Label: "—"})
	for _, e := range events {
		eventOpts = append(eventOpts, option{Value: e.ID.String(), Label: e.EventName})
	}

	scoreValue := func(n int) string {
		if n == 0 {
			return ""
		}
		return fmt.Sprintf("%d", n)
	}

	return formPage(p, heading, action, []formField{
		{Label: "Participant", Name: "participant_id", Type: "select", Value: uuidValue(v.ParticipantID), Options: participantOpts},
		{Label: "Event", Name: "event_id", Type: "select", Value: uuidValue(v.EventID), Options: eventOpts},
		{Label: "Satisfaction (1-5)", Name: "satisfaction_score", Type: "number", Value: scoreValue(v.SatisfactionScore)},
		{Label: "Usefulness (1-5)", Name: "usefulness_score", Type: "number", Value: scoreValue(v.UsefulnessScore)},
		{Label: "Recommendation (1-5)", Name: "recommendation_score", Type: "number", Value: scoreValue(v.RecommendationScore)},
		{Label: "Comments", Name: "comments", Type: "textarea", Value: v.Comments},
		{Label: "Survey date", Name: "survey_date", Type: "date", Value: formatDate(v.SurveyDate)},
	})
}

// MilestoneList renders participant milestones.
func MilestoneList(p Page, milestones []repository.Milestone) templ.Component {
	rows := make([]row, 0, len(milestones))
	for _, m := range milestones {
		rows = append(rows, row{
			Cells: []string{m.MilestoneName, m.MilestoneType,
				formatDate(m.AchievementDate), m.Status},
			EditPath:   "/milestones/" + m.ID.String() + "/edit",
			DeletePath: "/milestones/" + m.ID.String() + "/delete",
		})
	}
	return listPage(p, "Milestones", "/milestones/new",
		[]string{"Name", "Type", "Achieved", "Status"}, rows)
}

// MilestoneForm renders the create/edit form for a milestone.
func MilestoneForm(p Page, m *repository.Milestone, participants []repository.Participant, action string) templ.Component {
	var v repository.Milestone
	heading := "New Milestone"
	if m != nil {
		heading = "Edit Milestone"
		v = *m
	}

	participantOpts := make([]option, 0, len(participants)+1)
	participantOpts = append(participantOpts, option{Value: "", Label: "—"})
	for _, pt := range participants {
		participantOpts = append(participantOpts, option{Value: pt.ID.String(), Label: pt.FullName()})
	}

	return formPage(p, heading, action, []formField{
		{Label: "Name", Name: "milestone_name", Type: "text", Value: v.MilestoneName},
		{Label: "Type", Name: "milestone_type", Type: "text", Value: v.MilestoneType},
		{Label: "Participant", Name: "participant_id", Type: "select", Value: uuidValue(v.ParticipantID), Options: participantOpts},
		{Label: "Achievement date", Name: "achievement_date", Type: "date", Value: formatDate(v.AchievementDate)},
		{Label: "Status", Name: "status", Type: "select", Value: v.Status, Options: opts("pending", "in_progress", "achieved")},
		{Label: "Description", Name: "description", Type: "textarea", Value: v.Description},
	})
}

// DonationList renders received donations.
func DonationList(p Page, donations []repository.Donation) templ.Component {
	rows := make([]row, 0, len(donations))
	for _, d := range donations {
		rows = append(rows, row{
			Cells: []string{d.DonorName, fmt.Sprintf("$%.2f", d.Amount),
				d.PaymentMethod, formatDate(d.DonationDate)},
			EditPath:   "/donations/" + d.ID.String() + "/edit",
			DeletePath: "/donations/" + d.ID.String() + "/delete",
		})
	}
	return listPage(p, "Donations", "/donations/new",
		[]string{"Donor", "Amount", "Method", "Date"}, rows)
}

// DonationForm renders the create/edit form for a donation.
func DonationForm(p Page, d *repository.Donation, action string) templ.Component {
	var v repository.Donation
	heading := "New Donation"
	if d != nil {
		heading = "Edit Donation"
		v = *d
	}
	amount := ""
	if v.Amount != 0 {
		amount = fmt.Sprintf("%.2f", v.Amount)
	}
	return formPage(p, heading, action, []formField{
		{Label: "Donor name", Name: "donor_name", Type: "text", Value: v.DonorName},
		{Label: "Donor email", Name: "donor_email", Type: "email", Value: v.DonorEmail},
		{Label: "Donor phone", Name: "donor_phone", Type: "tel", Value: v.DonorPhone},
		{Label: "Amount", Name: "amount", Type: "number", Value: amount},
		{Label: "Payment method", Name: "payment_method", Type: "select", Value: v.PaymentMethod, Options: opts("card", "check", "cash")},
		{Label: "Donation date", Name: "donation_date", Type: "date", Value: formatDate(v.DonationDate)},
		{Label: "Notes", Name: "notes", Type: "textarea", Value: v.Notes},
	})
}
