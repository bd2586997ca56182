package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"kfet/internal/adapters/email"
	"kfet/internal/domain/audit"
	"kfet/internal/domain/planner"
	"kfet/internal/domain/week"
)

// SummaryDeps holds dependencies for the week summary mailer.
type SummaryDeps struct {
	State       PlannerState
	EmailSender email.Sender
	AuditStore  AuditStore // optional: nil skips audit recording
	From        string
	To          string
}

// SendWeekSummaryInput carries input for mailing a week recap.
type SendWeekSummaryInput struct {
	WeekKey string
}

// ExecuteSendWeekSummary renders the given week's slots, duties, and notes as
// an HTML recap and mails it to the configured recipient.
func ExecuteSendWeekSummary(ctx context.Context, input SendWeekSummaryInput, deps SummaryDeps) error {
	if _, err := week.Monday(input.WeekKey); err != nil {
		return err
	}

	snap := deps.State.Snapshot()
	body := renderWeekSummary(input.WeekKey, snap)
	label, _ := week.Label(input.WeekKey)

	result, err := deps.EmailSender.Send(ctx, email.SendRequest{
		From:    deps.From,
		To:      []string{deps.To},
		Subject: "Récap Kfet - " + label,
		HTML:    body,
	})
	if err != nil {
		return fmt.Errorf("sending week summary: %w", err)
	}

	slog.Info("planner_event", "event", "week_summary_sent", "week", input.WeekKey, "message_id", result.MessageID)
	recordAudit(ctx, deps.AuditStore,
		audit.NewEvent(audit.CategoryWeek, audit.ActionExport, input.WeekKey, "week summary emailed"))
	return nil
}

func renderWeekSummary(weekKey string, snap *planner.Store) string {
	var b strings.Builder
	label, _ := week.Label(weekKey)
	b.WriteString("<h1>" + html.EscapeString(label) + "</h1>")

	dates, _ := week.Dates(weekKey)
	wk := snap.WeekData[weekKey]

	for i, date := range dates {
		dayLabel := week.DayNames[i] + " " + date.Format(week.DateLayout)
		b.WriteString("<h2>" + html.EscapeString(dayLabel) + "</h2>")
		for _, slotName := range week.SlotNames {
			slotKey := week.SlotKey(date, slotName)
			b.WriteString("<h3>" + html.EscapeString(slotName+" ("+week.SlotTimes[slotName]+")") + "</h3>")

			if wk == nil || wk.Slots[slotKey] == nil {
				b.WriteString("<p>Personne d'inscrit.</p>")
				continue
			}
			slot := wk.Slots[slotKey]

			if len(slot.Members) == 0 {
				b.WriteString("<p>Personne d'inscrit.</p>")
			} else {
				b.WriteString("<ul>")
				for _, m := range slot.Members {
					status := "présent"
					if !m.Present {
						status = "absent"
					}
					b.WriteString("<li>" + html.EscapeString(m.Name) + " : " + status + "</li>")
				}
				b.WriteString("</ul>")
			}

			for _, duty := range week.DutiesFor(date, slotName) {
				if who := slot.Tasks[duty]; who != "" {
					b.WriteString("<p>" + html.EscapeString(duty+" : "+who) + "</p>")
				}
			}
			if slot.Note != "" {
				b.WriteString("<p><em>" + html.EscapeString(slot.Note) + "</em></p>")
			}
		}
	}

	if wk != nil && wk.Notes != "" {
		b.WriteString("<h2>Notes de la semaine</h2>")
		b.WriteString("<p>" + html.EscapeString(wk.Notes) + "</p>")
	}

	return b.String()
}
