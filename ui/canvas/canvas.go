// Package canvas provides the annotation canvas with pan, zoom, and
// tool-driven pointer handling.
package canvas

import (
	"image"

	"image-protractor/internal/annotation"
	appimage "image-protractor/internal/image"
	"image-protractor/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// dragMode identifies what the cursor tool is currently dragging.
type dragMode int

const (
	dragNone dragMode = iota
	dragPoint
	dragCircleBody
	dragCircleHandle
)

// ImageCanvas displays the background image with the annotation overlay and
// routes pointer events to the engine by current tool.
type ImageCanvas struct {
	widget.BaseWidget

	engine *annotation.Engine
	layer  *appimage.Layer

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Cursor-tool drag state
	mode        dragMode
	dragPointID string
	dragHandle  annotation.ResizeHandle
	lastDragPos geometry.Point2D
	dragStarted bool

	// Container
	scroll  *zoomScroll
	content *interactiveContent
	imgSize fyne.Size

	// Fit to window
	fitToWindow    bool
	lastScrollSize fyne.Size

	// Last rendered output for export
	lastOutput *image.RGBA

	// Callbacks
	onZoomChange func(zoom float64)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// interactiveContent wraps the raster to handle mouse events.
type interactiveContent struct {
	widget.BaseWidget
	canvas *ImageCanvas
	raster *fynecanvas.Raster
}

func newInteractiveContent(ic *ImageCanvas, raster *fynecanvas.Raster) *interactiveContent {
	c := &interactiveContent{canvas: ic, raster: raster}
	c.ExtendBaseWidget(c)
	return c
}

func (c *interactiveContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

func (c *interactiveContent) MinSize() fyne.Size {
	return c.raster.MinSize()
}

// eventToImage converts a pointer event position to image coordinates.
func (c *interactiveContent) eventToImage(pos fyne.Position) (float64, float64, bool) {
	size := c.Size()
	if pos.X < 0 || pos.Y < 0 || pos.X > size.Width || pos.Y > size.Height {
		return 0, 0, false
	}

	offset := c.canvas.scroll.Offset()
	p := c.canvas.canvasToImage(geometry.Point2D{
		X: float64(pos.X + offset.X),
		Y: float64(pos.Y + offset.Y),
	})
	return p.X, p.Y, true
}

// Tapped handles left-click events by current tool.
func (c *interactiveContent) Tapped(ev *fyne.PointEvent) {
	x, y, ok := c.eventToImage(ev.Position)
	if !ok {
		return
	}
	c.canvas.handleLeftClick(x, y)
}

// TappedSecondary handles right-click events: additive selection toggles.
func (c *interactiveContent) TappedSecondary(ev *fyne.PointEvent) {
	x, y, ok := c.eventToImage(ev.Position)
	if !ok {
		return
	}
	c.canvas.handleRightClick(x, y)
}

func (c *interactiveContent) Dragged(ev *fyne.DragEvent) {
	x, y, ok := c.eventToImage(ev.Position)
	if !ok {
		return
	}
	c.canvas.handleDrag(x, y)
}

func (c *interactiveContent) DragEnd() {
	c.canvas.handleDragEnd()
}

func (c *interactiveContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		c.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		c.canvas.ZoomOut()
	}
}

// NewImageCanvas creates a new annotation canvas over the given engine.
func NewImageCanvas(engine *annotation.Engine) *ImageCanvas {
	ic := &ImageCanvas{
		engine:  engine,
		zoom:    1.0,
		imgSize: fyne.NewSize(400, 300),
	}

	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels
	ic.raster.SetMinSize(ic.imgSize)

	ic.content = newInteractiveContent(ic, ic.raster)
	ic.scroll = newZoomScroll(ic.content, ic)

	// Redraw whenever the engine changes.
	redraw := func(interface{}) { ic.Refresh() }
	engine.On(annotation.EventEntitiesChanged, redraw)
	engine.On(annotation.EventSelectionChanged, redraw)
	engine.On(annotation.EventToolChanged, redraw)
	engine.On(annotation.EventInteractionChanged, redraw)

	ic.ExtendBaseWidget(ic)
	return ic
}

// Container returns the canvas container for embedding in layouts.
func (ic *ImageCanvas) Container() fyne.CanvasObject {
	return ic.scroll
}

// SetLayer sets the background image layer.
func (ic *ImageCanvas) SetLayer(layer *appimage.Layer) {
	ic.layer = layer
	ic.updateContentSize()
}

// Layer returns the current background image layer, or nil.
func (ic *ImageCanvas) Layer() *appimage.Layer {
	return ic.layer
}

// imageTransform returns the image-to-canvas transform for the current zoom.
func (ic *ImageCanvas) imageTransform() geometry.AffineTransform {
	return geometry.Scale(ic.zoom, ic.zoom)
}

// canvasToImage converts canvas (zoomed) coordinates to image coordinates.
func (ic *ImageCanvas) canvasToImage(p geometry.Point2D) geometry.Point2D {
	inv, ok := ic.imageTransform().Inverse()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// imageToCanvas converts image coordinates to canvas coordinates.
func (ic *ImageCanvas) imageToCanvas(p geometry.Point2D) geometry.Point2D {
	return ic.imageTransform().Apply(p)
}

// SetZoom sets the zoom level.
func (ic *ImageCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ic.zoom = zoom
	ic.updateContentSize()

	if ic.onZoomChange != nil {
		ic.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (ic *ImageCanvas) Zoom() float64 {
	return ic.zoom
}

// ZoomIn increases the zoom level.
func (ic *ImageCanvas) ZoomIn() {
	ic.SetZoom(ic.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ic *ImageCanvas) ZoomOut() {
	ic.SetZoom(ic.zoom / zoomStep)
}

// FitToWindow adjusts zoom to fit the image in the visible area.
func (ic *ImageCanvas) FitToWindow() {
	bounds := ic.imageBounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}

	viewSize := ic.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(bounds.Dx())
	zoomY := float64(viewSize.Height) / float64(bounds.Dy())

	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}

	ic.SetZoom(zoom * 0.95) // Leave a small margin
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ic *ImageCanvas) SetFitToWindow(fit bool) {
	ic.fitToWindow = fit
	if fit {
		ic.FitToWindow()
	}
}

// OnZoomChange sets a callback for zoom changes.
func (ic *ImageCanvas) OnZoomChange(callback func(zoom float64)) {
	ic.onZoomChange = callback
}

// RenderedOutput returns the last rendered canvas output.
func (ic *ImageCanvas) RenderedOutput() *image.RGBA {
	return ic.lastOutput
}

// RenderExport renders the image with the annotation overlay at 1:1 for
// PNG export.
func (ic *ImageCanvas) RenderExport() *image.RGBA {
	var output *image.RGBA
	if ic.layer != nil {
		output = ic.layer.Flatten()
	} else {
		w, h := int(ic.imgSize.Width), int(ic.imgSize.Height)
		output = image.NewRGBA(image.Rect(0, 0, w, h))
		for i := 3; i < len(output.Pix); i += 4 {
			output.Pix[i] = 255
		}
	}
	drawAnnotations(output, ic.engine, 1.0)
	return output
}

// Refresh refreshes the canvas display.
func (ic *ImageCanvas) Refresh() {
	ic.raster.Refresh()
}

// handleLeftClick routes a primary click to the engine by current tool.
func (ic *ImageCanvas) handleLeftClick(x, y float64) {
	switch ic.engine.CurrentTool() {
	case annotation.ToolMarker:
		ic.engine.HandleCanvasClick(x, y)

	case annotation.ToolAngle:
		if lineID := ic.engine.HitTestLine(x, y); lineID != "" {
			ic.engine.HandleAngleToolLineClick(lineID)
		}

	case annotation.ToolCircle:
		ic.engine.HandleCircleToolClick(x, y)

	case annotation.ToolCursor:
		ic.selectAt(x, y, false)
	}
}

// handleRightClick toggles selection membership under the cursor tool.
func (ic *ImageCanvas) handleRightClick(x, y float64) {
	if ic.engine.CurrentTool() != annotation.ToolCursor {
		return
	}
	ic.selectAt(x, y, true)
}

// selectAt resolves the entity under (x, y) and selects it. Points win over
// lines, lines over angles, angles over the circle. A miss clears the
// selection in replace mode.
func (ic *ImageCanvas) selectAt(x, y float64, additive bool) {
	if id := ic.engine.HitTestPoint(x, y); id != "" {
		ic.engine.SelectPoint(id, additive)
		return
	}
	if id := ic.engine.HitTestLine(x, y); id != "" {
		ic.engine.SelectLine(id, additive)
		return
	}
	if id := ic.engine.HitTestAngle(x, y); id != "" {
		ic.engine.SelectAngle(id, additive)
		return
	}
	if ic.engine.HitTestCircle(x, y) {
		ic.engine.SelectCircle(additive)
		return
	}
	if !additive {
		ic.engine.ClearSelection()
	}
}

// handleDrag moves points, the circle, or a circle resize handle under the
// cursor tool.
func (ic *ImageCanvas) handleDrag(x, y float64) {
	if ic.engine.CurrentTool() != annotation.ToolCursor {
		return
	}

	pos := geometry.Point2D{X: x, Y: y}
	if !ic.dragStarted {
		ic.dragStarted = true
		ic.lastDragPos = pos
		ic.mode = dragNone

		if h, ok := ic.engine.HitTestCircleHandle(x, y); ok {
			ic.mode = dragCircleHandle
			ic.dragHandle = h
		} else if id := ic.engine.HitTestPoint(x, y); id != "" {
			ic.mode = dragPoint
			ic.dragPointID = id
		} else if ic.engine.HitTestCircle(x, y) {
			ic.mode = dragCircleBody
		}
	}

	switch ic.mode {
	case dragPoint:
		ic.engine.DragPointTo(ic.dragPointID, x, y)
	case dragCircleHandle:
		ic.engine.ResizeCircle(ic.dragHandle, x, y)
	case dragCircleBody:
		ic.engine.MoveCircle(pos.X-ic.lastDragPos.X, pos.Y-ic.lastDragPos.Y)
	}
	ic.lastDragPos = pos
}

func (ic *ImageCanvas) handleDragEnd() {
	if ic.mode == dragPoint {
		ic.engine.CommitDrag(ic.dragPointID)
	}
	ic.mode = dragNone
	ic.dragPointID = ""
	ic.dragStarted = false
}

// imageBounds returns the background image extent.
func (ic *ImageCanvas) imageBounds() image.Rectangle {
	if ic.layer == nil || ic.layer.Image == nil {
		return image.Rect(0, 0, 0, 0)
	}
	return image.Rect(0, 0, ic.layer.Width(), ic.layer.Height())
}

// updateContentSize updates the content size based on image and zoom.
func (ic *ImageCanvas) updateContentSize() {
	bounds := ic.imageBounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		ic.imgSize = fyne.NewSize(float32(1024*ic.zoom), float32(768*ic.zoom))
	} else {
		ic.imgSize = fyne.NewSize(
			float32(float64(bounds.Dx())*ic.zoom),
			float32(float64(bounds.Dy())*ic.zoom),
		)
	}

	ic.raster.SetMinSize(ic.imgSize)
	ic.raster.Resize(ic.imgSize)
	if ic.content != nil {
		ic.content.Resize(ic.imgSize)
		ic.content.Refresh()
	}
	ic.raster.Refresh()
	if ic.scroll != nil {
		ic.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	currentSize := fyne.NewSize(float32(w), float32(h))
	if ic.fitToWindow && currentSize != ic.lastScrollSize && w > 0 && h > 0 {
		ic.lastScrollSize = currentSize
		go func() {
			ic.FitToWindow()
		}()
	}

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if ic.layer != nil && ic.layer.Image != nil && ic.layer.Visible {
		ic.compositeLayer(output, w, h)
	}

	drawAnnotations(output, ic.engine, ic.zoom)

	ic.lastOutput = output
	return output
}

// compositeLayer draws the background layer onto the output with opacity.
func (ic *ImageCanvas) compositeLayer(output *image.RGBA, w, h int) {
	src := ic.layer.Image
	srcBounds := src.Bounds()
	opacity := ic.layer.Opacity

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := ic.canvasToImage(geometry.Point2D{X: float64(x), Y: float64(y)})
			srcX := int(p.X) + srcBounds.Min.X
			srcY := int(p.Y) + srcBounds.Min.Y

			if srcX < srcBounds.Min.X || srcX >= srcBounds.Max.X ||
				srcY < srcBounds.Min.Y || srcY >= srcBounds.Max.Y {
				continue
			}

			srcColor := src.At(srcX, srcY)
			sr, sg, sb, sa := srcColor.RGBA()

			effectiveAlpha := float64(sa) / 0xffff * opacity
			if effectiveAlpha >= 0.999 {
				output.Set(x, y, srcColor)
			} else if effectiveAlpha > 0.001 {
				dr, dg, db, _ := output.At(x, y).RGBA()
				invAlpha := 1 - effectiveAlpha

				output.SetRGBA(x, y, rgba(
					float64(sr>>8)*effectiveAlpha+float64(dr>>8)*invAlpha,
					float64(sg>>8)*effectiveAlpha+float64(dg>>8)*invAlpha,
					float64(sb>>8)*effectiveAlpha+float64(db>>8)*invAlpha,
				))
			}
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{canvas: ic}
}

type imageCanvasRenderer struct {
	canvas *ImageCanvas
}

func (r *imageCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
}

func (r *imageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *imageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *imageCanvasRenderer) Destroy() {}
