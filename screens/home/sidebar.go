package home

import (
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

type HomeSidebar struct {
	window       fyne.Window
	keyList      binding.List[string]
	HandleSelect func(key string)
	HandleRecord func(key, value string)
	HandleImport func(r io.Reader)
}

func InitHomeSidebar(window fyne.Window, keyList binding.List[string]) *HomeSidebar {
	return &HomeSidebar{
		window:  window,
		keyList: keyList,
	}
}

// SetKeys replaces the listed keys.
func (hs *HomeSidebar) SetKeys(keys []string) {
	hs.keyList.Set(keys)
}

func (hs *HomeSidebar) Render() fyne.CanvasObject {
	keys := widget.NewListWithData(hs.keyList,
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(item binding.DataItem, obj fyne.CanvasObject) {
			obj.(*widget.Label).Bind(item.(binding.String))
		},
	)
	keys.OnSelected = func(id widget.ListItemID) {
		key, err := hs.keyList.GetValue(id)
		if err == nil && hs.HandleSelect != nil {
			hs.HandleSelect(key)
		}
	}

	buttons := container.NewVBox(
		widget.NewButton("Record a value", hs.showRecordForm),
		widget.NewButton("Import CSV", hs.showImportDialog),
		widget.NewLabel("Keys"),
	)

	return container.NewBorder(buttons, nil, nil, nil, keys)
}

func (hs *HomeSidebar) showRecordForm() {
	key := widget.NewEntry()
	key.SetPlaceHolder("profile/age")
	value := widget.NewEntry()
	value.SetPlaceHolder("42")

	dialog.ShowForm("Record a value", "Save", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Key", key),
		widget.NewFormItem("Value", value),
	}, func(ok bool) {
		if ok && strings.TrimSpace(key.Text) != "" && hs.HandleRecord != nil {
			hs.HandleRecord(strings.TrimSpace(key.Text), strings.TrimSpace(value.Text))
		}
	}, hs.window)
}

func (hs *HomeSidebar) showImportDialog() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, hs.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		if hs.HandleImport != nil {
			hs.HandleImport(reader)
		}
	}, hs.window)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	open.Show()
}
