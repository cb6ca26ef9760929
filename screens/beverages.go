package screens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"demo/database"
)

type Beverage struct {
	Name     string
	Volume   string
	Quantity int
}

// Key is the item key holding the daily quantity of the beverage.
func (b *Beverage) Key() string {
	return "beverage/" + b.Name
}

var defaultBeverages = []Beverage{
	{Name: "Water", Volume: "250 ml"},
	{Name: "Coffee", Volume: "200 ml"},
	{Name: "Tea", Volume: "250 ml"},
}

// BeveragesPanel counts today's beverages, one tap per glass.
type BeveragesPanel struct {
	logger    *slog.Logger
	databases Databases
	now       func() time.Time
	beverages []Beverage
	buttons   []*widget.Button
	OnError   func(error)
	OnChange  func(key string)
}

func InitBeveragesPanel(logger *slog.Logger, databases Databases) *BeveragesPanel {
	beverages := make([]Beverage, len(defaultBeverages))
	copy(beverages, defaultBeverages)

	return &BeveragesPanel{
		logger:    logger,
		databases: databases,
		now:       time.Now,
		beverages: beverages,
	}
}

// Load reads today's quantities.
func (p *BeveragesPanel) Load(ctx context.Context) error {
	db, err := p.databases.Database()
	if err != nil {
		return err
	}

	for i := range p.beverages {
		b := &p.beverages[i]
		if b.Quantity, err = p.quantity(ctx, db, b); err != nil {
			return err
		}
	}
	p.refresh()
	return nil
}

// Increment adds one glass of the i-th beverage to the quantity stored for today.
func (p *BeveragesPanel) Increment(ctx context.Context, i int) error {
	db, err := p.databases.Database()
	if err != nil {
		return err
	}

	b := &p.beverages[i]
	current, err := p.quantity(ctx, db, b)
	if err != nil {
		return fmt.Errorf("increment %s: %w", b.Name, err)
	}
	if err := db.Items().SetItemByDate(ctx, b.Key(), current+1, p.now()); err != nil {
		return fmt.Errorf("increment %s: %w", b.Name, err)
	}
	b.Quantity = current + 1
	p.refresh()

	if p.OnChange != nil {
		p.OnChange(b.Key())
	}
	return nil
}

// quantity reads the stored quantity of b for the current day.
func (p *BeveragesPanel) quantity(ctx context.Context, db *database.AppDatabase, b *Beverage) (int, error) {
	item, err := db.Items().Item(ctx, b.Key(), p.now())
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var quantity int
	if err := item.Decode(&quantity); err != nil {
		p.logger.Warn("Ignoring unreadable quantity", "key", b.Key(), "error", err)
		return 0, nil
	}
	return quantity, nil
}

// Beverages returns a copy of the current counters.
func (p *BeveragesPanel) Beverages() []Beverage {
	out := make([]Beverage, len(p.beverages))
	copy(out, p.beverages)
	return out
}

func (p *BeveragesPanel) Render() fyne.CanvasObject {
	columns := make([]fyne.CanvasObject, 0, len(p.beverages))
	p.buttons = make([]*widget.Button, len(p.beverages))

	for i := range p.beverages {
		b := &p.beverages[i]
		p.buttons[i] = widget.NewButton(strconv.Itoa(b.Quantity), func() {
			if err := p.Increment(context.Background(), i); err != nil {
				p.logger.Error("Can't increment beverage", "beverage", b.Name, "error", err)
				if p.OnError != nil {
					p.OnError(err)
				}
			}
		})
		columns = append(columns, container.NewVBox(
			container.NewCenter(p.buttons[i]),
			container.NewCenter(widget.NewLabel(b.Name)),
			container.NewCenter(widget.NewLabel(b.Volume)),
		))
	}

	return container.NewGridWithColumns(len(columns), columns...)
}

func (p *BeveragesPanel) refresh() {
	for i, button := range p.buttons {
		button.SetText(strconv.Itoa(p.beverages[i].Quantity))
	}
}
