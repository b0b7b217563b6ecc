package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/output"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// SSEEvent is one event queued for the single SSE writer
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// TileUpdate is a finished tile of the frame in progress
type TileUpdate struct {
	TileX       int    `json:"tileX"` // Tile coordinates, multiply by TileSize for pixels
	TileY       int    `json:"tileY"`
	TileSize    int    `json:"tileSize"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	FrameNumber int    `json:"frameNumber"`
	TileNumber  int    `json:"tileNumber"`  // 1-based, in completion order
	TotalTiles  int    `json:"totalTiles"`  // Tiles per frame
	TotalFrames int    `json:"totalFrames"` // 0 when orbiting until the client leaves
}

// FrameUpdate is a completed frame
type FrameUpdate struct {
	FrameNumber int        `json:"frameNumber"`
	TotalFrames int        `json:"totalFrames"`
	Angle       float64    `json:"angle"`
	ImageData   string     `json:"imageData"` // Base64 encoded PNG of the whole frame
	Stats       FrameStats `json:"stats"`
	IsLast      bool       `json:"isLast"`
	ElapsedMs   int64      `json:"elapsedMs"` // Since the render request started
}

// FrameStats are the statistics of one frame
type FrameStats struct {
	TotalPixels      int     `json:"totalPixels"`
	BackgroundPixels int     `json:"backgroundPixels"`
	ClampedPixels    int     `json:"clampedPixels"`
	Coverage         float64 `json:"coverage"`
	AverageLuminance float64 `json:"averageLuminance"`
	DurationMs       int64   `json:"durationMs"`
}

// sseStream serializes events from several goroutines onto one response
type sseStream struct {
	ctx    context.Context
	events chan SSEEvent
	done   chan struct{}
}

func newSSEStream(ctx context.Context, w http.ResponseWriter) *sseStream {
	stream := &sseStream{
		ctx:    ctx,
		events: make(chan SSEEvent, 100),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(stream.done)
		writeSSEEvents(ctx, w, stream.events)
	}()
	return stream
}

// send queues an event, giving up if the client has gone
func (st *sseStream) send(eventType, data string) {
	select {
	case st.events <- SSEEvent{Type: eventType, Data: data}:
	case <-st.ctx.Done():
	}
}

// sendJSON marshals v and queues it
func (st *sseStream) sendJSON(eventType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	st.send(eventType, string(data))
}

// close flushes queued events and waits for the writer. No sends may follow.
func (st *sseStream) close() {
	close(st.events)
	<-st.done
}

// handleRender streams an orbit animation: tiles as they finish, then each
// completed frame, interleaved with the render's log lines
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)

	ctx := r.Context()
	stream := newSSEStream(ctx, w)
	defer stream.close()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		stream.send("error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		stream.send("error", err.Error())
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan)

	stopConsole := make(chan struct{})
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		streamConsoleMessages(ctx, consoleChan, stopConsole, stream)
	}()

	animator := renderer.NewAnimator(sceneObj, animationConfig(req, sceneObj), logger)

	logger.Printf("Rendering %s at %dx%d, depth %d\n", sceneObj.Name,
		sceneObj.RenderConfig.Width, sceneObj.RenderConfig.Height, sceneObj.RenderConfig.RecursionDepth)

	startTime := time.Now()
	frameChan, tileChan, errChan := animator.RenderAnimation(ctx, renderer.RenderOptions{TileUpdates: true})
	renderErr := s.handleRenderingEvents(stream, frameChan, tileChan, errChan, animator.Config(), startTime)

	// The animator has stopped logging once errChan is closed
	close(stopConsole)
	<-consoleDone

	switch {
	case renderErr == nil:
		stream.send("complete", "Rendering completed")
	case ctx.Err() == nil:
		stream.send("error", fmt.Sprintf("Rendering failed: %v", renderErr))
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes events until the channel is closed or the client leaves
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

// streamConsoleMessages forwards log lines until stop is closed, then drains
// whatever is still buffered
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, stop <-chan struct{}, stream *sseStream) {
	for {
		select {
		case msg := <-consoleChan:
			stream.sendJSON("console", msg)
		case <-stop:
			for {
				select {
				case msg := <-consoleChan:
					stream.sendJSON("console", msg)
				default:
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// handleRenderingEvents forwards frames and tiles until the animation ends.
// It returns nil on success, the render error, or the context error when the
// client disconnected. It always waits for errChan to close.
func (s *Server) handleRenderingEvents(stream *sseStream, frameChan <-chan renderer.FrameResult,
	tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	config renderer.AnimationConfig, startTime time.Time) error {

	for frameChan != nil || tileChan != nil {
		select {
		case frame, ok := <-frameChan:
			if !ok {
				frameChan = nil
				continue
			}
			sendFrame(stream, frame, config, startTime)

		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			sendTile(stream, tile, config)

		case <-stream.ctx.Done():
			// Stop forwarding; the animator notices the context on its own
			frameChan, tileChan = nil, nil
		}
	}

	var renderErr error
	for err := range errChan {
		renderErr = err
	}
	if renderErr == nil {
		renderErr = stream.ctx.Err()
	}
	return renderErr
}

func sendFrame(stream *sseStream, frame renderer.FrameResult, config renderer.AnimationConfig, startTime time.Time) {
	imageData, err := imageToBase64PNG(frame.Image)
	if err != nil {
		log.Printf("Error encoding frame %d: %v", frame.FrameNumber, err)
		return
	}

	stream.sendJSON("frame", FrameUpdate{
		FrameNumber: frame.FrameNumber,
		TotalFrames: config.Frames,
		Angle:       frame.Angle,
		ImageData:   imageData,
		Stats: FrameStats{
			TotalPixels:      frame.Stats.TotalPixels,
			BackgroundPixels: frame.Stats.BackgroundPixels,
			ClampedPixels:    frame.Stats.ClampedPixels,
			Coverage:         frame.Stats.CoverageRatio(),
			AverageLuminance: renderer.CalculateAverageLuminance(frame.Image),
			DurationMs:       frame.Stats.Duration.Milliseconds(),
		},
		IsLast:    frame.IsLast,
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

func sendTile(stream *sseStream, tile renderer.TileCompletionResult, config renderer.AnimationConfig) {
	imageData, err := imageToBase64PNG(tile.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tile.TileX, tile.TileY, err)
		return
	}

	stream.sendJSON("tile", TileUpdate{
		TileX:       tile.TileX,
		TileY:       tile.TileY,
		TileSize:    config.TileSize,
		ImageData:   imageData,
		FrameNumber: tile.FrameNumber,
		TileNumber:  tile.TileNumber,
		TotalTiles:  tile.TotalTiles,
		TotalFrames: tile.TotalFrames,
	})
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img *image.RGBA) (string, error) {
	var buf bytes.Buffer
	if err := output.EncodePNG(&buf, img, ""); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
