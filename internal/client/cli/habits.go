package cli

import (
	"context"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
	"github.com/dmitrijs2005/habitkeeper/internal/client/views"
)

func (a *App) List(ctx context.Context, tag string) error {
	if _, err := a.habits.FetchAll(ctx); err != nil {
		a.printError(err)
		return err
	}

	snap := a.habits.Snapshot()
	a.println(renderHabits(views.FilterByTag(snap.Habits, tag), a.today(), snap.Selected))
	return nil
}

func (a *App) Tags(_ context.Context) error {
	tags := views.UniqueTags(a.habits.Snapshot().Habits)
	if len(tags) == 0 {
		a.println(mutedStyle.Render("No tags yet."))
		return nil
	}
	a.println(renderTags(tags))
	return nil
}

func (a *App) promptDraft(current models.HabitDraft) (models.HabitDraft, error) {
	name, err := GetTextWithDefault(a.reader, "Name", current.Name, a.out)
	if err != nil {
		return models.HabitDraft{}, err
	}
	desc, err := GetTextWithDefault(a.reader, "Description", current.Description, a.out)
	if err != nil {
		return models.HabitDraft{}, err
	}
	tag, err := GetTextWithDefault(a.reader, "Tag", current.Tag, a.out)
	if err != nil {
		return models.HabitDraft{}, err
	}
	return models.HabitDraft{Name: name, Description: desc, Tag: tag}, nil
}

func (a *App) Add(ctx context.Context) error {
	draft, err := a.promptDraft(models.HabitDraft{})
	if err != nil {
		return err
	}

	h, err := a.habits.Create(ctx, draft)
	if err != nil {
		a.printError(err)
		return err
	}
	a.println(okStyle.Render("✓ Created habit " + h.ID.String() + ": " + h.Name))
	return nil
}

func (a *App) findHabit(id models.ID) (models.Habit, bool) {
	all := a.habits.Snapshot().Habits
	i := slices.IndexFunc(all, func(h models.Habit) bool { return h.ID == id })
	if i < 0 {
		return models.Habit{}, false
	}
	return all[i], true
}

func (a *App) Edit(ctx context.Context, id string) error {
	current, _ := a.findHabit(models.ID(id))

	draft, err := a.promptDraft(models.HabitDraft{Name: current.Name, Description: current.Description, Tag: current.Tag})
	if err != nil {
		return err
	}

	h, err := a.habits.Update(ctx, models.ID(id), draft)
	if err != nil {
		a.printError(err)
		return err
	}
	a.println(okStyle.Render("✓ Updated habit " + h.ID.String()))
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.habits.Delete(ctx, models.ID(id)); err != nil {
		a.printError(err)
		return err
	}
	a.println(okStyle.Render("✓ Deleted habit " + id))
	return nil
}

// Done marks a habit complete on date, or today when date is empty.
func (a *App) Done(ctx context.Context, id, date string) error {
	day := a.today()
	if date != "" {
		parsed, err := models.ParseDate(date)
		if err != nil {
			a.printError(err)
			return err
		}
		day = parsed
	}

	c, err := a.habits.Complete(ctx, models.ID(id), day)
	if err != nil {
		a.printError(err)
		return err
	}

	msg := "✓ Marked habit " + c.HabitID.String() + " done on " + c.Date.String()
	if h, ok := a.findHabit(c.HabitID); ok {
		msg += " (streak " + strconv.Itoa(views.Streak(h)) + ")"
	}
	a.println(okStyle.Render(msg))
	return nil
}

func (a *App) Select(_ context.Context, id string) error {
	a.habits.Select(models.ID(id))

	h, ok := a.habits.SelectedHabit()
	if !ok {
		a.println(mutedStyle.Render("Habit " + id + " is not loaded; run 'list' to refresh."))
		return nil
	}
	a.println(renderHabitDetail(h, a.today()))
	return nil
}

func (a *App) Unselect(_ context.Context) error {
	a.habits.ClearSelection()
	return nil
}
