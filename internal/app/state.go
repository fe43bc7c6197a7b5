// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"fmt"
	"sync"

	"image-protractor/internal/annotation"
	"image-protractor/internal/image"
)

// State holds the application state: the loaded image and the annotation
// engine working on top of it.
type State struct {
	mu sync.RWMutex

	// Background image
	ImageLayer *image.Layer

	// Annotation engine
	Engine *annotation.Engine

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventImageCleared
	EventExported
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	return &State{
		Engine:    annotation.NewEngine(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage loads the background image from the specified path. Annotations
// from a previous image are cleared.
func (s *State) LoadImage(path string) error {
	if !image.IsSupportedFormat(path) {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	layer, err := image.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ImageLayer = layer
	s.mu.Unlock()

	s.Engine.ClearAll()
	s.Emit(EventImageLoaded, path)
	return nil
}

// ClearImage removes the background image without touching annotations.
func (s *State) ClearImage() {
	s.mu.Lock()
	s.ImageLayer = nil
	s.mu.Unlock()

	s.Emit(EventImageCleared, nil)
}

// Layer returns the current background image layer, or nil.
func (s *State) Layer() *image.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ImageLayer
}

// CanvasSize returns the working extent in image pixels. With no image
// loaded a default blank canvas extent is used.
func (s *State) CanvasSize() (w, h int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ImageLayer == nil {
		return 1024, 768
	}
	return s.ImageLayer.Width(), s.ImageLayer.Height()
}
