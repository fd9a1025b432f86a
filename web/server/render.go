package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// RowUpdate carries one finished scanline, top row first
type RowUpdate struct {
	Y         int      `json:"y"` // Image row, 0 at the top
	RowsDone  int      `json:"rowsDone"`
	TotalRows int      `json:"totalRows"`
	Pixels    [][3]int `json:"pixels"`
}

// CompleteUpdate is sent once the whole image is done
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// SSEEvent is a single event queued for the SSE writer goroutine
type SSEEvent struct {
	Type string `json:"type"` // "console", "row", "error", "complete"
	Data string `json:"data"`
}

// streamSink is a renderer.Sink that forwards rows as SSE events while
// building the final PNG
type streamSink struct {
	ctx    context.Context
	events chan<- SSEEvent
	png    *renderer.PNGWriter
	buf    bytes.Buffer
	height int
	done   int
}

func newStreamSink(ctx context.Context, events chan<- SSEEvent) *streamSink {
	s := &streamSink{ctx: ctx, events: events}
	s.png = renderer.NewPNGWriter(&s.buf)
	return s
}

func (s *streamSink) Begin(width, height int) error {
	s.height = height
	return s.png.Begin(width, height)
}

func (s *streamSink) WriteRow(row []core.Vec3) error {
	if err := s.png.WriteRow(row); err != nil {
		return err
	}
	s.done++

	pixels := make([][3]int, len(row))
	for i, c := range row {
		r, g, b := renderer.ToRGB(c)
		pixels[i] = [3]int{r, g, b}
	}
	return sendJSON(s.ctx, s.events, "row", RowUpdate{
		Y:         s.done - 1,
		RowsDone:  s.done,
		TotalRows: s.height,
		Pixels:    pixels,
	})
}

func (s *streamSink) End() error {
	return s.png.End()
}

func (s *streamSink) imageData() string {
	return base64.StdEncoding.EncodeToString(s.buf.Bytes())
}

// handleRender renders a scene and streams each scanline via SSE as it completes.
// A client disconnect cancels the render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	ctx := r.Context()

	events := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(ctx, w, events)
	}()
	defer func() {
		close(events)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		streamConsoleMessages(ctx, consoleChan, events)
	}()
	logger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan)

	sink := newStreamSink(ctx, events)
	raytracer := renderer.NewRaytracer(sceneObj, sceneObj.SamplingConfig, logger)
	stats, renderErr := raytracer.Render(ctx, sink)

	// Render has returned, so nothing logs to consoleChan any more
	close(consoleChan)
	<-consoleDone

	if renderErr != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", renderErr)})
		return
	}
	sendJSON(ctx, events, "complete", CompleteUpdate{
		ImageData: sink.imageData(),
		Stats:     newStats(sceneObj.SamplingConfig, stats),
	})
}

// handleImage renders a scene and responds with the finished PNG
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	raytracer := renderer.NewRaytracer(sceneObj, sceneObj.SamplingConfig, nil)
	stats, err := raytracer.Render(r.Context(), renderer.NewPNGWriter(&buf))
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Samples", fmt.Sprintf("%d", stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing image: %v", err)
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes queued events until the channel closes or the client goes away.
// It is the only goroutine that touches w.
func writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards logger output as "console" events until consoleChan closes
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, events chan<- SSEEvent) {
	for msg := range consoleChan {
		data, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}
		select {
		case events <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Writer is behind; console output is best effort
		}
	}
}

// sendEvent queues an event, giving up if the client has gone
func sendEvent(ctx context.Context, events chan<- SSEEvent, event SSEEvent) error {
	select {
	case events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sendJSON(ctx context.Context, events chan<- SSEEvent, eventType string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return sendEvent(ctx, events, SSEEvent{Type: eventType, Data: string(data)})
}
