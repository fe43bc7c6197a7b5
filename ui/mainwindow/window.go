// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"

	"image-protractor/internal/annotation"
	"image-protractor/internal/app"
	appimage "image-protractor/internal/image"
	"image-protractor/internal/version"
	"image-protractor/ui/canvas"
	"image-protractor/ui/panels"
	"image-protractor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.ImageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	fitToWindowItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Image Protractor")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeyboard()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewImageCanvas(mw.state.Engine)
	mw.sidePanel = panels.NewSidePanel(mw.state, mw.canvas)
	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,               // top
		nil,                   // bottom
		nil,                   // left
		nil,                   // right
		mw.canvas.Container(), // center
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25) // Side panel takes 25% of width

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Annotated PNG...", mw.onExportPNG),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Delete Selected", mw.onDeleteSelected),
		fyne.NewMenuItem("Clear All Annotations", mw.onClearAll),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Cursor", func() { mw.selectTool(annotation.ToolCursor) }),
		fyne.NewMenuItem("Marker", func() { mw.selectTool(annotation.ToolMarker) }),
		fyne.NewMenuItem("Angle", func() { mw.selectTool(annotation.ToolAngle) }),
		fyne.NewMenuItem("Circle", func() { mw.selectTool(annotation.ToolCircle) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Fit Circle to Selected Points", func() {
			mw.state.Engine.FitCircleToSelection()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, toolsMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application and engine events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		mw.canvas.SetLayer(mw.state.Layer())
		if path, ok := data.(string); ok {
			mw.SetTitle("Image Protractor - " + filepath.Base(path))
			mw.updateStatus("Loaded " + filepath.Base(path))
		}
	})

	mw.state.On(app.EventImageCleared, func(data interface{}) {
		mw.canvas.SetLayer(nil)
		mw.SetTitle("Image Protractor")
	})

	mw.state.Engine.On(annotation.EventToolChanged, func(data interface{}) {
		if tool, ok := data.(annotation.Tool); ok {
			mw.updateStatus("Tool: " + tool.String())
		}
	})
}

// setupKeyboard wires the window-level key handling: Escape cancels any
// in-progress interaction, Delete removes the selection.
func (mw *MainWindow) setupKeyboard() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			mw.state.Engine.CancelActivePoint()
			mw.state.Engine.CancelAngleSelection()
			mw.state.Engine.CancelDrag()
			mw.state.Engine.ClearSelection()
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.state.Engine.DeleteSelected()
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) selectTool(tool annotation.Tool) {
	mw.state.Engine.SetCurrentTool(tool)
}

// lastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) lastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(filePath))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// RestoreLastImage reloads the previously opened image, if any.
func (mw *MainWindow) RestoreLastImage() {
	path := mw.prefs.String(prefs.KeyLastImage)
	if path == "" {
		return
	}
	if err := mw.state.LoadImage(path); err != nil {
		log.Printf("Failed to restore last image: %v", err)
	}
}

// OpenImage loads an image from the given path and remembers it.
func (mw *MainWindow) OpenImage(path string) {
	if err := mw.state.LoadImage(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.saveLastDir(path)
	mw.prefs.SetString(prefs.KeyLastImage, path)
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.OpenImage(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(appimage.SupportedFormats()))
	if loc := mw.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()

		output := mw.canvas.RenderExport()
		if err := appimage.WritePNG(output, path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.saveLastDir(path)
		mw.state.Emit(app.EventExported, path)
		mw.updateStatus("Exported " + filepath.Base(path))
	}, mw.Window)
	fd.SetFileName("annotated.png")
	if loc := mw.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onDeleteSelected() {
	mw.state.Engine.DeleteSelected()
}

func (mw *MainWindow) onClearAll() {
	if !mw.state.Engine.HasData() {
		return
	}
	dialog.ShowConfirm("Clear All", "Remove every annotation?", func(ok bool) {
		if ok {
			mw.state.Engine.ClearAll()
		}
	}, mw.Window)
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
	mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", mw.canvas.Zoom()*100))
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
	mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", mw.canvas.Zoom()*100))
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
	mw.updateStatus("Zoom: 100%")
}

func (mw *MainWindow) onToggleFitToWindow() {
	if mw.fitToWindowItem.Checked {
		mw.disableFitToWindow()
		return
	}
	mw.canvas.SetFitToWindow(true)
	mw.fitToWindowItem.Label = "✓ Fit to Window"
	mw.fitToWindowItem.Checked = true
	mw.updateStatus("Fit to window")
}

func (mw *MainWindow) disableFitToWindow() {
	mw.canvas.SetFitToWindow(false)
	mw.fitToWindowItem.Label = "  Fit to Window"
	mw.fitToWindowItem.Checked = false
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Image Protractor",
		fmt.Sprintf("Image Protractor v%s\n\n"+
			"Point, line, angle and circle measurement over images.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
