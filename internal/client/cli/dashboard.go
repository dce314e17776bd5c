package cli

import (
	"context"

	"github.com/dmitrijs2005/habitkeeper/internal/client/views"
)

const topHabits = 3

func (a *App) Dashboard(ctx context.Context) error {
	if _, err := a.habits.FetchAll(ctx); err != nil {
		a.printError(err)
		return err
	}

	all := a.habits.Snapshot().Habits
	a.println(renderDashboard(
		views.Summarize(all),
		views.TopByStreak(all, topHabits),
		views.WeeklySeries(all, a.today()),
		views.Progress(all),
	))
	return nil
}

func (a *App) Calendar(ctx context.Context) error {
	if _, err := a.habits.FetchAll(ctx); err != nil {
		a.printError(err)
		return err
	}

	a.println(renderCalendar(views.CalendarEvents(a.habits.Snapshot().Habits)))
	return nil
}
