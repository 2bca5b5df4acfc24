package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Row is the rendered form of one schedule item
type Row struct {
	Title  string
	Detail string
	Done   bool
	Urgent bool
}

// ScheduleListConfig wires the list controls to the caller
type ScheduleListConfig struct {
	OnAdd    func()
	OnToggle func(index int)
	OnRemove func(index int)
}

// ScheduleList shows schedule rows with add, toggle and remove controls
type ScheduleList struct {
	list     *widget.List
	rows     []Row
	selected int
	config   ScheduleListConfig

	toggleButton *widget.Button
	removeButton *widget.Button
}

// NewScheduleList creates the list and the container holding it with its controls
func NewScheduleList(config ScheduleListConfig) (*ScheduleList, *fyne.Container) {
	sl := &ScheduleList{
		selected: -1,
		config:   config,
	}

	sl.list = widget.NewList(
		func() int {
			return len(sl.rows)
		},
		func() fyne.CanvasObject {
			title := widget.NewLabel("template")
			title.TextStyle = fyne.TextStyle{Bold: true}
			detail := widget.NewLabel("template")
			icon := widget.NewIcon(theme.RadioButtonIcon())
			return container.NewBorder(nil, nil, icon, nil, container.NewVBox(title, detail))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= len(sl.rows) {
				return
			}
			sl.renderRow(sl.rows[i], o.(*fyne.Container))
		})

	sl.list.OnSelected = func(id widget.ListItemID) {
		sl.selected = id
		sl.updateButtons()
	}
	sl.list.OnUnselected = func(widget.ListItemID) {
		sl.selected = -1
		sl.updateButtons()
	}

	addButton := widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), func() {
		if sl.config.OnAdd != nil {
			sl.config.OnAdd()
		}
	})
	sl.toggleButton = widget.NewButtonWithIcon("Done", theme.ConfirmIcon(), func() {
		if idx := sl.Selected(); idx >= 0 && sl.config.OnToggle != nil {
			sl.config.OnToggle(idx)
		}
	})
	sl.removeButton = widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if idx := sl.Selected(); idx >= 0 && sl.config.OnRemove != nil {
			sl.config.OnRemove(idx)
			sl.list.UnselectAll()
		}
	})
	sl.updateButtons()

	listScroll := container.NewScroll(sl.list)
	listScroll.SetMinSize(fyne.NewSize(0, 300))

	controls := container.NewHBox(addButton, sl.toggleButton, sl.removeButton)
	return sl, container.NewBorder(nil, controls, nil, nil, listScroll)
}

func (sl *ScheduleList) renderRow(row Row, c *fyne.Container) {
	// Border layout puts the centre object first, then the icon
	texts := c.Objects[0].(*fyne.Container)
	icon := c.Objects[1].(*widget.Icon)

	title := texts.Objects[0].(*widget.Label)
	detail := texts.Objects[1].(*widget.Label)

	title.SetText(row.Title)
	detail.SetText(row.Detail)
	if row.Urgent {
		detail.Importance = widget.DangerImportance
	} else {
		detail.Importance = widget.MediumImportance
	}
	detail.Refresh()

	if row.Done {
		icon.SetResource(theme.RadioButtonCheckedIcon())
	} else {
		icon.SetResource(theme.RadioButtonIcon())
	}
}

func (sl *ScheduleList) updateButtons() {
	idx := sl.Selected()
	if idx < 0 {
		sl.toggleButton.Disable()
		sl.removeButton.Disable()
		return
	}
	sl.toggleButton.Enable()
	sl.removeButton.Enable()
	if sl.rows[idx].Done {
		sl.toggleButton.SetText("Reopen")
	} else {
		sl.toggleButton.SetText("Done")
	}
}

// SetRows replaces the displayed rows and clears the selection
func (sl *ScheduleList) SetRows(rows []Row) {
	sl.rows = rows
	sl.list.UnselectAll()
	sl.selected = -1
	sl.list.Refresh()
	sl.updateButtons()
}

// Rows returns the displayed rows
func (sl *ScheduleList) Rows() []Row {
	return sl.rows
}

// Select marks the row at index as selected
func (sl *ScheduleList) Select(index int) {
	sl.list.Select(index)
}

// Selected returns the selected row index, or -1
func (sl *ScheduleList) Selected() int {
	if sl.selected < 0 || sl.selected >= len(sl.rows) {
		return -1
	}
	return sl.selected
}
