package mail

import (
	"context"
	"time"
)

// DemoClient serves a small fixed set of messages without touching the
// network. It backs the --demo flag so the dashboard can be explored before
// an account is configured.
type DemoClient struct {
	now func() time.Time
}

// NewDemoClient returns a demo backend whose message dates are relative to
// the current time.
func NewDemoClient() *DemoClient {
	return &DemoClient{now: time.Now}
}

// FetchCurrentQuarter implements Client.
func (c *DemoClient) FetchCurrentQuarter(ctx context.Context) ([]Message, error) {
	now := c.now().UTC()

	return []Message{
		{
			ID:      "1",
			Subject: "Project Update - Q2",
			Sender:  "manager@company.com",
			Date:    now.AddDate(0, 0, -7),
			Body: "Here's the latest update on our project progress...\n\n" +
				"We've completed the initial phase of development and are moving into testing. " +
				"Please review the attached documents and provide feedback by the end of the week.\n\n" +
				"Thanks,\nProject Manager",
		},
		{
			ID:      "2",
			Subject: "Team Meeting - Tomorrow",
			Sender:  "team-lead@company.com",
			Date:    now.AddDate(0, 0, -1),
			Body: "Reminder: We have a team meeting scheduled for tomorrow at 10 AM.\n\n" +
				"Agenda:\n1. Project status updates\n2. Upcoming deadlines\n3. Resource allocation\n4. Open discussion\n\n" +
				"Please come prepared with your updates.\n\nRegards,\nTeam Lead",
		},
		{
			ID:      "3",
			Subject: "Vacation Request",
			Sender:  "hr@company.com",
			Date:    now.AddDate(0, 0, -2),
			Body: "Your vacation request has been approved.\n\n" +
				"Dates: June 15-22, 2023\nTotal days: 5 business days\nRemaining PTO: 15 days\n\n" +
				"Please ensure all your tasks are properly handed over before your departure.\n\n" +
				"Best regards,\nHR Department",
		},
		{
			ID:      "4",
			Subject: "System Maintenance Notice",
			Sender:  "it-support@company.com",
			Date:    now,
			Body: "Dear Team,\n\n" +
				"Please be informed that we will be performing system maintenance this weekend. " +
				"The following systems will be unavailable from Saturday 8 PM to Sunday 2 AM:\n\n" +
				"- Email servers\n- Internal documentation\n- Project management tools\n\n" +
				"Please plan your work accordingly.\n\nIT Support Team",
		},
	}, nil
}
