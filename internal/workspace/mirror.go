package workspace

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/vk/specarith/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Events emitted by Mirror.
const (
	EventDataAdded   = "data_added"
	EventDataRemoved = "data_removed"
)

// Publisher forwards a named event to a remote listener.
type Publisher interface {
	Publish(event string, payload any)
}

// Mirror is a Collection that forwards every successful mutation of the
// wrapped collection to a Publisher.
type Mirror struct {
	Collection
	pub    Publisher
	logger *slog.Logger
}

// NewMirror wraps inner so that additions and removals are published.
func NewMirror(inner Collection, pub Publisher, logger *slog.Logger) *Mirror {
	return &Mirror{Collection: inner, pub: pub, logger: logger}
}

// AddData implements Collection.
func (m *Mirror) AddData(obj DataObject, name string) (DataObject, error) {
	stored, err := m.Collection.AddData(obj, name)
	if err != nil {
		return stored, err
	}
	m.logger.Debug("Mirroring data object.", "event", EventDataAdded, "name", stored.Name, "id", stored.Identifier)
	m.pub.Publish(EventDataAdded, payloadFor(stored))
	return stored, nil
}

// RemoveData implements Collection.
func (m *Mirror) RemoveData(id uuid.UUID) error {
	if err := m.Collection.RemoveData(id); err != nil {
		return err
	}
	m.logger.Debug("Mirroring data object.", "event", EventDataRemoved, "id", id)
	m.pub.Publish(EventDataRemoved, map[string]any{"identifier": id.String()})
	return nil
}

// Revision forwards to the wrapped collection when it tracks revisions.
func (m *Mirror) Revision() uint64 {
	if r, ok := m.Collection.(Revisioner); ok {
		return r.Revision()
	}
	return 0
}

func payloadFor(obj DataObject) map[string]any {
	s := obj.Spectrum
	return map[string]any{
		"name":          obj.Name,
		"identifier":    obj.Identifier.String(),
		"spectral_unit": s.SpectralUnit,
		"flux_unit":     s.FluxUnit,
		"wavelength":    s.Wavelength,
		"flux":          s.Flux,
	}
}

// HubOptions configures the socket.io connection used by DialHub.
type HubOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Hub is a connected socket.io client that implements Publisher.
type Hub struct {
	io     *socket.Socket
	logger *slog.Logger
}

// DialHub connects to a socket.io server and waits for the connection to be
// acknowledged, the context to end, or the timeout to pass.
func DialHub(ctx context.Context, opts HubOptions) (*Hub, error) {
	logger := ctxlog.FromContext(ctx).With("component", "hub", "url", opts.URL)
	logger.Info("Connecting to workspace hub...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hub URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("hub URL %q must include scheme and host", opts.URL)
	}

	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	connected := make(chan error, 2)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to workspace hub", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})

	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Hub{io: io, logger: logger}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for hub connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for hub connection", timeout)
	}
}

// Publish implements Publisher.
func (h *Hub) Publish(event string, payload any) {
	h.io.Emit(event, payload)
}

// Close disconnects from the hub.
func (h *Hub) Close() error {
	h.logger.Info("Disconnecting from workspace hub", "sid", h.io.Id())
	h.io.Disconnect()
	return nil
}
