package screens

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"demo/database"
	"demo/sleep"
)

// recentDays is how far back the list of nights looks.
const recentDays = 14

// SleepForm records one night of sleep and lists the recent ones.
type SleepForm struct {
	logger    *slog.Logger
	databases Databases
	window    fyne.Window
	validator *sleep.Validator
	now       func() time.Time
	nights    []database.SleepModel
	list      *widget.List

	start         *widget.Entry
	end           *widget.Entry
	interruptions *widget.Entry
	comment       *widget.Entry
	status        *widget.Label
}

func InitSleepForm(logger *slog.Logger, databases Databases, w fyne.Window) *SleepForm {
	f := &SleepForm{
		logger:        logger,
		databases:     databases,
		window:        w,
		validator:     sleep.NewValidator(),
		now:           time.Now,
		start:         widget.NewEntry(),
		end:           widget.NewEntry(),
		interruptions: widget.NewEntry(),
		comment:       widget.NewMultiLineEntry(),
		status:        widget.NewLabel(""),
	}
	f.start.SetPlaceHolder("2016-11-01T23:00:00-05:00")
	f.end.SetPlaceHolder("2016-11-02T07:05:00-05:00")
	f.interruptions.SetPlaceHolder("0")
	return f
}

// document builds the JSON record from the entries. Interruptions that are not a
// number are sent as text so the validator reports them.
func (f *SleepForm) document(id int) []byte {
	doc := map[string]any{
		"id":      id,
		"start":   strings.TrimSpace(f.start.Text),
		"end":     strings.TrimSpace(f.end.Text),
		"comment": f.comment.Text,
	}

	interruptions := strings.TrimSpace(f.interruptions.Text)
	if interruptions == "" {
		doc["numberOfInteruptions"] = 0
	} else if n, err := strconv.Atoi(interruptions); err == nil {
		doc["numberOfInteruptions"] = n
	} else {
		doc["numberOfInteruptions"] = interruptions
	}

	raw, _ := json.Marshal(doc)
	return raw
}

// Submit validates and stores the entered record under the next free record number.
// It returns the validation errors, if any, without storing anything.
func (f *SleepForm) Submit(ctx context.Context) ([]sleep.ValidationError, error) {
	db, err := f.databases.Database()
	if err != nil {
		return nil, err
	}
	next, err := db.Sleeps().NextRecordID(ctx)
	if err != nil {
		return nil, err
	}

	raw := f.document(next)
	if !f.validator.Validate(raw) {
		errs := f.validator.Errors()
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		f.status.SetText(strings.Join(msgs, "\n"))
		return errs, nil
	}

	rec, err := sleep.Parse(raw)
	if err != nil {
		return nil, err
	}
	id, err := db.Sleeps().Save(ctx, rec)
	if err != nil {
		return nil, err
	}

	saved, err := db.Sleeps().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Sleep recorded", "id", id, "record", saved.RecordID, "duration", saved.Duration())
	f.status.SetText(fmt.Sprintf("Saved: %s", saved.Duration()))
	return nil, f.Reload(ctx)
}

// Reload lists the nights started during the last recentDays days, newest first.
func (f *SleepForm) Reload(ctx context.Context) error {
	db, err := f.databases.Database()
	if err != nil {
		return err
	}

	now := f.now()
	nights, err := db.Sleeps().List(ctx, now.AddDate(0, 0, -recentDays), now.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	slices.Reverse(nights)
	f.nights = nights
	if f.list != nil {
		f.list.Refresh()
	}
	return nil
}

// Nights returns the listed nights, newest first.
func (f *SleepForm) Nights() []database.SleepModel {
	return f.nights
}

// Delete removes the i-th listed night.
func (f *SleepForm) Delete(ctx context.Context, i int) error {
	if i < 0 || i >= len(f.nights) {
		return fmt.Errorf("night %d: %w", i, database.ErrNotFound)
	}
	db, err := f.databases.Database()
	if err != nil {
		return err
	}
	if err := db.Sleeps().Delete(ctx, f.nights[i].ID); err != nil {
		return err
	}
	return f.Reload(ctx)
}

func describeNight(m database.SleepModel) string {
	text := fmt.Sprintf("%s  %s", m.Start.Local().Format("Mon 02/01 15:04"), m.Duration())
	if m.Interruptions > 0 {
		text += fmt.Sprintf(", woke %d times", m.Interruptions)
	}
	if m.Comment != "" {
		text += " - " + m.Comment
	}
	return text
}

func (f *SleepForm) Render(onError func(error)) fyne.CanvasObject {
	form := &widget.Form{
		Items: []*widget.FormItem{
			widget.NewFormItem("Start", f.start),
			widget.NewFormItem("End", f.end),
			widget.NewFormItem("Interruptions", f.interruptions),
			widget.NewFormItem("Comment", f.comment),
		},
		SubmitText: "Save",
		OnSubmit: func() {
			if _, err := f.Submit(context.Background()); err != nil {
				f.logger.Error("Can't save sleep", "error", err)
				if onError != nil {
					onError(err)
				}
			}
		},
	}

	f.list = widget.NewList(
		func() int { return len(f.nights) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(describeNight(f.nights[id]))
		},
	)
	f.list.OnSelected = func(id widget.ListItemID) {
		f.list.UnselectAll()
		dialog.ShowConfirm("Delete night", "Delete "+describeNight(f.nights[id])+"?", func(ok bool) {
			if !ok {
				return
			}
			if err := f.Delete(context.Background(), id); err != nil {
				f.logger.Error("Can't delete sleep", "error", err)
				if onError != nil {
					onError(err)
				}
			}
		}, f.window)
	}

	top := container.NewVBox(form, f.status, widget.NewLabel("Recent nights"))
	return container.NewBorder(top, nil, nil, nil, f.list)
}
