// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"image-protractor/internal/annotation"
	"image-protractor/internal/app"
	"image-protractor/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	canvas    *canvas.ImageCanvas
	container *container.AppTabs

	toolsPanel        *ToolsPanel
	measurementsPanel *MeasurementsPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State, cvs *canvas.ImageCanvas) *SidePanel {
	sp := &SidePanel{
		state:  state,
		canvas: cvs,
	}

	sp.toolsPanel = NewToolsPanel(state)
	sp.measurementsPanel = NewMeasurementsPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Tools", sp.toolsPanel.Container()),
		container.NewTabItem("Measurements", sp.measurementsPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// ToolsPanel selects the active tool and exposes circle actions.
type ToolsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	toolRadio   *widget.RadioGroup
	statusLabel *widget.Label
	circleLabel *widget.Label
}

var toolNames = []string{"Cursor", "Marker", "Angle", "Circle"}

func toolFromName(name string) annotation.Tool {
	switch name {
	case "Marker":
		return annotation.ToolMarker
	case "Angle":
		return annotation.ToolAngle
	case "Circle":
		return annotation.ToolCircle
	default:
		return annotation.ToolCursor
	}
}

func toolName(t annotation.Tool) string {
	switch t {
	case annotation.ToolMarker:
		return "Marker"
	case annotation.ToolAngle:
		return "Angle"
	case annotation.ToolCircle:
		return "Circle"
	default:
		return "Cursor"
	}
}

// NewToolsPanel creates the tool selection panel.
func NewToolsPanel(state *app.State) *ToolsPanel {
	tp := &ToolsPanel{state: state}
	engine := state.Engine

	tp.statusLabel = widget.NewLabel("")
	tp.statusLabel.Wrapping = fyne.TextWrapWord
	tp.circleLabel = widget.NewLabel("No reference circle")

	tp.toolRadio = widget.NewRadioGroup(toolNames, func(name string) {
		if name == "" {
			return
		}
		engine.SetCurrentTool(toolFromName(name))
	})
	tp.toolRadio.SetSelected(toolName(engine.CurrentTool()))

	fitButton := widget.NewButton("Fit Circle to Selected Points", func() {
		engine.FitCircleToSelection()
	})
	deleteButton := widget.NewButton("Delete Selected", func() {
		engine.DeleteSelected()
	})
	clearButton := widget.NewButton("Clear All", func() {
		engine.ClearAll()
	})

	tp.container = container.NewVBox(
		widget.NewLabelWithStyle("Tool", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		tp.toolRadio,
		tp.statusLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Reference Circle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		tp.circleLabel,
		fitButton,
		widget.NewSeparator(),
		deleteButton,
		clearButton,
	)

	refresh := func(interface{}) { tp.update() }
	engine.On(annotation.EventToolChanged, refresh)
	engine.On(annotation.EventInteractionChanged, refresh)
	engine.On(annotation.EventEntitiesChanged, refresh)

	tp.update()
	return tp
}

// update refreshes the status and circle labels from engine state.
func (tp *ToolsPanel) update() {
	engine := tp.state.Engine

	tp.toolRadio.SetSelected(toolName(engine.CurrentTool()))

	switch engine.CurrentTool() {
	case annotation.ToolMarker:
		if engine.ActivePointID() != "" {
			tp.statusLabel.SetText("Click to place the line end, or click the start point to cancel.")
		} else {
			tp.statusLabel.SetText("Click to place a point or pick up an existing one.")
		}
	case annotation.ToolAngle:
		if engine.FirstLineID() != "" {
			tp.statusLabel.SetText("Click a second line sharing an endpoint.")
		} else {
			tp.statusLabel.SetText("Click the first line of the angle.")
		}
	case annotation.ToolCircle:
		tp.statusLabel.SetText("Click to place the reference circle.")
	default:
		tp.statusLabel.SetText("Click to select; drag to move points or the circle.")
	}

	if c := engine.Circle(); c != nil {
		tp.circleLabel.SetText(fmt.Sprintf("Center (%.1f, %.1f)  r = %.1f", c.CenterX, c.CenterY, c.Radius))
	} else {
		tp.circleLabel.SetText("No reference circle")
	}
}

// Container returns the panel content.
func (tp *ToolsPanel) Container() fyne.CanvasObject {
	return tp.container
}

// MeasurementsPanel lists lines with live lengths and angles with degrees.
// Selecting a row selects the entity on the canvas.
type MeasurementsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	lineList  *widget.List
	angleList *widget.List
}

// NewMeasurementsPanel creates the measurement list panel.
func NewMeasurementsPanel(state *app.State) *MeasurementsPanel {
	mp := &MeasurementsPanel{state: state}
	engine := state.Engine

	mp.lineList = widget.NewList(
		func() int { return len(engine.Lines()) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			lines := engine.Lines()
			if i >= len(lines) {
				return
			}
			l := lines[i]
			length := engine.CalculateLineLength(l.ID)
			o.(*widget.Label).SetText(fmt.Sprintf("%s: %.1f px", l.Label, length))
		},
	)
	mp.lineList.OnSelected = func(i widget.ListItemID) {
		lines := engine.Lines()
		if i < len(lines) {
			engine.SelectLine(lines[i].ID, false)
		}
	}

	mp.angleList = widget.NewList(
		func() int { return len(engine.Angles()) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			angles := engine.Angles()
			if i >= len(angles) {
				return
			}
			a := angles[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s: %.1f°", a.Label, a.Degrees))
		},
	)
	mp.angleList.OnSelected = func(i widget.ListItemID) {
		angles := engine.Angles()
		if i < len(angles) {
			engine.SelectAngle(angles[i].ID, false)
		}
	}

	mp.container = container.NewVSplit(
		container.NewBorder(
			widget.NewLabelWithStyle("Lines", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			nil, nil, nil, mp.lineList,
		),
		container.NewBorder(
			widget.NewLabelWithStyle("Angles", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			nil, nil, nil, mp.angleList,
		),
	)

	refresh := func(interface{}) {
		mp.lineList.Refresh()
		mp.angleList.Refresh()
	}
	engine.On(annotation.EventEntitiesChanged, refresh)
	engine.On(annotation.EventSelectionChanged, refresh)

	return mp
}

// Container returns the panel content.
func (mp *MeasurementsPanel) Container() fyne.CanvasObject {
	return mp.container
}
